package network

// CheckStatusCode passes accepted codes through and maps every other code to
// a *StatusError. Redirects are accepted; following them is the transport's
// business.
func CheckStatusCode(code int) (int, error) {
	switch {
	case code >= 100 && code <= 103:
		return code, nil
	case code >= 200 && code <= 226:
		return code, nil
	case code >= 300 && code <= 308:
		return code, nil
	case code >= 400 && code <= 451:
		return 0, &StatusError{Kind: KindClient, Code: code}
	case code >= 500 && code <= 511:
		return 0, &StatusError{Kind: KindServer, Code: code}
	default:
		return 0, &StatusError{Kind: KindUnknown, Code: code}
	}
}
