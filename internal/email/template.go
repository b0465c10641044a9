package email

import "strings"

// renderTemplate substitutes {{name}} placeholders with the provided values.
// Unknown placeholders are left intact so a typo in an admin-edited template
// is visible in the delivered mail instead of silently vanishing.
func renderTemplate(text string, vars map[string]string) string {
	if len(vars) == 0 {
		return text
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
