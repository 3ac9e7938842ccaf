package logline

import "regexp"

// The historical log formats, oldest last. The timestamp prefix is a loose
// character class rather than a strict ISO-8601 grammar because the legacy
// logger occasionally wrote fractional seconds of varying width.
var (
	// "<timestamp> - {json}"
	reTimestampedJSON = regexp.MustCompile(`^([\d\-T:.Z]+) - (\{.*\})$`)

	// "<timestamp> - "[User: @name],\n [Query: ...],\n [Google result: ...],\n [reply: ...]"
	reBracketedSearch = regexp.MustCompile(
		`(?s)^([\d\-T:.Z]+) - "\[User: @?([^\]]+)\],\\n \[Query: (.*?)\],\\n \[Google result: .*?\],\\n \[reply: (.*?)\]`)

	// "<timestamp> - "[User: @name],\n [Query: ...],\n [reply: ...]\n\n"
	reBracketed = regexp.MustCompile(
		`(?s)^([\d\-T:.Z]+) - "\[User: @?([^\]]+)\],\\n \[Query: (.*?)\],\\n \[reply: (.*?)\](?:\\n)*"?$`)
)
