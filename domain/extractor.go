package domain

import (
	"regexp"
)

// linePattern matches one access-log entry in the combined format, e.g.
//
//	193.105.7.171 - - [24/Jan/2018:00:01:12 +0300] "GET /x HTTP/1.0" 200 4012 "http://ref" "UA"
//
// It is applied as a global scan, so text between entries is skipped.
var linePattern = regexp.MustCompile(
	`(?P<ip_addr>\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}) - - ` +
		`\[(?P<timestamp>\d{1,2}/\w{3,5}/\d{4}:\d{2}:\d{2}:\d{2} \+\d{4})\] ` +
		`"(?P<method>\w{3,6}?) (?P<path>\S+?) (?P<protocol>\S+?)" ` +
		`(?P<status>\d{3}) (?P<bytes>\d+|-) ` +
		`"(?P<referrer>\S+?)" "(?P<user_agent>.*?)"`,
)

var (
	ipAddrIdx    = linePattern.SubexpIndex(FieldIPAddr)
	timestampIdx = linePattern.SubexpIndex(FieldTimestamp)
	methodIdx    = linePattern.SubexpIndex(FieldMethod)
	pathIdx      = linePattern.SubexpIndex(FieldPath)
	protocolIdx  = linePattern.SubexpIndex(FieldProtocol)
	statusIdx    = linePattern.SubexpIndex(FieldStatus)
	bytesIdx     = linePattern.SubexpIndex(FieldBytes)
	referrerIdx  = linePattern.SubexpIndex(FieldReferrer)
	userAgentIdx = linePattern.SubexpIndex(FieldUserAgent)
)

// Extract returns every log record found in content, in the order the entries
// appear. Content without any matching entry yields an empty slice.
func Extract(content string) []LogRecord {
	matches := linePattern.FindAllStringSubmatch(content, -1)
	records := make([]LogRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, LogRecord{
			IPAddr:    m[ipAddrIdx],
			Timestamp: m[timestampIdx],
			Method:    m[methodIdx],
			Path:      m[pathIdx],
			Protocol:  m[protocolIdx],
			Status:    m[statusIdx],
			Bytes:     m[bytesIdx],
			Referrer:  m[referrerIdx],
			UserAgent: m[userAgentIdx],
		})
	}
	return records
}
