// Package redis connects to Redis and provides SlotStore, a session.Store
// backed by plain string keys.
//
// Connect retries the initial ping according to Config. Healthcheck returns a
// probe for the readiness endpoint.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	slots := redis.NewSlotStoreFromConfig(client, cfg)
//	factory := session.NewManagerFactory(slots.Factory("", true), session.WithAuthenticator(a))
//
// Slots are scoped per browsing context through a session cookie holding a
// random id, and expire on the server after Config.SlotTTL.
package redis
