package render

import "strings"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var texEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde`,
	"^", `\textasciicircum`,
	`\`, `\textbackslash`,
)

func escapeXML(s string) string { return xmlEscaper.Replace(s) }

func escapeTeX(s string) string { return texEscaper.Replace(s) }
