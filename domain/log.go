package domain

// Canonical field names, in output column order.
const (
	FieldIPAddr    = "ip_addr"
	FieldTimestamp = "timestamp"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldProtocol  = "protocol"
	FieldStatus    = "status"
	FieldBytes     = "bytes"
	FieldReferrer  = "referrer"
	FieldUserAgent = "user_agent"
)

// FieldNames lists the record fields in their fixed order.
var FieldNames = []string{
	FieldIPAddr,
	FieldTimestamp,
	FieldMethod,
	FieldPath,
	FieldProtocol,
	FieldStatus,
	FieldBytes,
	FieldReferrer,
	FieldUserAgent,
}

// LogRecord is one access-log line. All nine fields are always set, values are
// kept verbatim as matched.
type LogRecord struct {
	IPAddr    string `db:"ip_addr"`
	Timestamp string `db:"timestamp"`
	Method    string `db:"method"`
	Path      string `db:"path"`
	Protocol  string `db:"protocol"`
	Status    string `db:"status"`
	Bytes     string `db:"bytes"`
	Referrer  string `db:"referrer"`
	UserAgent string `db:"user_agent"`
}

// Field returns the value of the named field. ok is false for names that are not
// part of the record.
func (r LogRecord) Field(name string) (value string, ok bool) {
	switch name {
	case FieldIPAddr:
		return r.IPAddr, true
	case FieldTimestamp:
		return r.Timestamp, true
	case FieldMethod:
		return r.Method, true
	case FieldPath:
		return r.Path, true
	case FieldProtocol:
		return r.Protocol, true
	case FieldStatus:
		return r.Status, true
	case FieldBytes:
		return r.Bytes, true
	case FieldReferrer:
		return r.Referrer, true
	case FieldUserAgent:
		return r.UserAgent, true
	}
	return "", false
}

// Values returns the field values in FieldNames order.
func (r LogRecord) Values() []string {
	return []string{
		r.IPAddr,
		r.Timestamp,
		r.Method,
		r.Path,
		r.Protocol,
		r.Status,
		r.Bytes,
		r.Referrer,
		r.UserAgent,
	}
}
