package client

// Ack is the decoded body of a successful command.
type Ack map[string]any

// OK reports the backend's own success flag; a body without "ok" counts as success
// because the transport already returned 2xx.
func (a Ack) OK() bool {
	v, ok := record(a).first("ok")
	if !ok {
		return true
	}
	return coerceBool(v)
}

func (a Ack) String(key string) string {
	return record(a).str(key)
}

// Float returns the numeric field or nil when it is absent or malformed.
func (a Ack) Float(key string) *float64 {
	f, err := record(a).number(key, key)
	if err != nil {
		return nil
	}
	return f
}
