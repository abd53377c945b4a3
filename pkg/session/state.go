package session

// State is a step of the authentication lifecycle.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
	// StateExpired is transient and always settles into StateUnauthenticated.
	StateExpired State = "expired"
)

func (s State) String() string {
	return string(s)
}

type event string

const (
	eventCheck   event = "check"
	eventLogin   event = "login"
	eventSucceed event = "succeed"
	eventRestore event = "restore"
	eventFail    event = "fail"
	eventExpire  event = "expire"
	eventSettle  event = "settle"
	eventLogout  event = "logout"
)

// transitions is the lifecycle table: [from][event] -> to.
// Success and failure are accepted from every resting state so that racing
// logins complete without being rejected; the last write wins.
var transitions = map[State]map[event]State{
	StateAuthenticating: {
		eventLogin:   StateAuthenticating,
		eventSucceed: StateAuthenticated,
		eventRestore: StateAuthenticated,
		eventFail:    StateUnauthenticated,
		eventExpire:  StateExpired,
		eventLogout:  StateUnauthenticated,
	},
	StateUnauthenticated: {
		eventCheck:   StateAuthenticating,
		eventLogin:   StateAuthenticating,
		eventSucceed: StateAuthenticated,
		eventFail:    StateUnauthenticated,
		eventLogout:  StateUnauthenticated,
	},
	StateAuthenticated: {
		eventCheck:   StateAuthenticating,
		eventLogin:   StateAuthenticating,
		eventSucceed: StateAuthenticated,
		eventRestore: StateAuthenticated,
		eventExpire:  StateExpired,
		eventLogout:  StateUnauthenticated,
	},
	StateExpired: {
		eventSettle: StateUnauthenticated,
	},
}

// TransitionHook observes every state change. It runs while the Manager
// holds its lock and must not call back into the Manager.
type TransitionHook func(from, to State)

// machine is not safe for concurrent use; the Manager serializes access.
type machine struct {
	current State
	hooks   []TransitionHook
}

func newMachine(initial State, hooks ...TransitionHook) *machine {
	return &machine{current: initial, hooks: hooks}
}

func (m *machine) can(ev event) bool {
	_, ok := transitions[m.current][ev]
	return ok
}

func (m *machine) fire(ev event) error {
	to, ok := transitions[m.current][ev]
	if !ok {
		return &TransitionError{From: m.current, Event: string(ev)}
	}
	from := m.current
	m.current = to
	for _, h := range m.hooks {
		if h != nil {
			h(from, to)
		}
	}
	return nil
}
