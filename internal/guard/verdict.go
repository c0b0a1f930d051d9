package guard

import "fmt"

// AdminFallbackPath is where non-admins are sent when they open an admin route.
const AdminFallbackPath = "/profile"

// AppState travels through the identity provider's login redirect and tells
// the application where to continue afterwards.
type AppState struct {
	TargetURL string `json:"targetUrl"`
}

// Intent describes a requested navigation.
type Intent struct {
	RequiresAuth  bool
	RequiresAdmin bool
	// FullPath is the target path including query, used as the post-login target.
	FullPath string
}

// VerdictKind enumerates guard outcomes.
type VerdictKind int

const (
	// Proceed lets the navigation continue.
	Proceed VerdictKind = iota
	// RedirectToLogin aborts the navigation; the identity provider takes over.
	RedirectToLogin
	// RedirectTo aborts the navigation in favor of another path.
	RedirectTo
)

func (k VerdictKind) String() string {
	switch k {
	case Proceed:
		return "proceed"
	case RedirectToLogin:
		return "login"
	case RedirectTo:
		return "redirect"
	default:
		return fmt.Sprintf("VerdictKind(%d)", int(k))
	}
}

// Verdict is the guard's decision for one navigation.
type Verdict struct {
	Kind     VerdictKind
	AppState AppState // set for RedirectToLogin
	Path     string   // set for RedirectTo
}

// ProceedVerdict allows the navigation.
func ProceedVerdict() Verdict { return Verdict{Kind: Proceed} }

// LoginVerdict requests a login that returns to target.
func LoginVerdict(target string) Verdict {
	return Verdict{Kind: RedirectToLogin, AppState: AppState{TargetURL: target}}
}

// RedirectVerdict sends the navigation to path.
func RedirectVerdict(path string) Verdict {
	return Verdict{Kind: RedirectTo, Path: path}
}

func (v Verdict) String() string {
	switch v.Kind {
	case RedirectToLogin:
		return fmt.Sprintf("login(target=%s)", v.AppState.TargetURL)
	case RedirectTo:
		return fmt.Sprintf("redirect(%s)", v.Path)
	default:
		return v.Kind.String()
	}
}
