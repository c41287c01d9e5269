package services

// Result is the business outcome of Register or Authenticate. Outcomes are
// values, not errors; callers branch on them. The zero value is Unknown and
// is what every error path returns.
type Result int

const (
	Unknown Result = iota
	Success
	UsernameTaken
	InvalidUser
	InvalidPassword
	InvalidUsername
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case UsernameTaken:
		return "username_taken"
	case InvalidUser:
		return "invalid_user"
	case InvalidPassword:
		return "invalid_password"
	case InvalidUsername:
		return "invalid_username"
	default:
		return "unknown"
	}
}
