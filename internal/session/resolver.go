// Package session derives the current session state from the identity
// signal and the client-local guest flag, and decides page access.
package session

// State is the runtime-derived session state. It is never stored; every
// resolution recomputes it from the two input signals.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateGuest           State = "guest"
	StateAuthenticated   State = "authenticated"
)

// Page identifies a page of the client surface by filename stem.
type Page string

const (
	PageIndex       Page = "index"
	PageLogin       Page = "login"
	PageRegister    Page = "register"
	PageDashboard   Page = "dashboard"
	PageProfile     Page = "profile"
	PageTaskHistory Page = "task_history"
)

// Decision is the access outcome for a page under a given session state.
type Decision string

const (
	DecisionAllow             Decision = "allow"
	DecisionRedirectLogin     Decision = "redirect_login"
	DecisionRedirectDashboard Decision = "redirect_dashboard"
)

// Resolution is the full output of a resolve call.
type Resolution struct {
	State    State    `json:"state"`
	UserID   string   `json:"user_id,omitempty"`
	Decision Decision `json:"decision"`

	// SubscribeData reports whether live data subscriptions may be
	// established. Guests see the dashboard but never get data.
	SubscribeData bool `json:"subscribe_data"`
}

var protectedPages = map[Page]bool{
	PageDashboard:   true,
	PageProfile:     true,
	PageTaskHistory: true,
}

var authOnlyPages = map[Page]bool{
	PageIndex:    true,
	PageLogin:    true,
	PageRegister: true,
}

// Resolve computes the session state and page-access decision. userID is
// empty when no identity signal is present; guest is the client-local
// preview flag. An authenticated user on an auth-only page is sent to the
// dashboard; a guest is likewise kept off auth pages but gets no data
// subscriptions; everyone else is bounced from protected pages to login.
func Resolve(userID string, guest bool, page Page) Resolution {
	switch {
	case userID != "":
		r := Resolution{State: StateAuthenticated, UserID: userID, Decision: DecisionAllow, SubscribeData: true}
		if authOnlyPages[page] {
			r.Decision = DecisionRedirectDashboard
		}
		return r
	case guest:
		r := Resolution{State: StateGuest, Decision: DecisionAllow}
		if authOnlyPages[page] {
			r.Decision = DecisionRedirectDashboard
		}
		return r
	default:
		r := Resolution{State: StateUnauthenticated, Decision: DecisionAllow}
		if protectedPages[page] {
			r.Decision = DecisionRedirectLogin
		}
		return r
	}
}

// ParsePage maps a page name to a known Page. Unknown names resolve to the
// index page, which is public, so an unrecognized route never locks anyone
// out.
func ParsePage(name string) Page {
	switch Page(name) {
	case PageLogin, PageRegister, PageDashboard, PageProfile, PageTaskHistory:
		return Page(name)
	default:
		return PageIndex
	}
}
