// Package emailtemplate renders the {{var}} / {{#if var}}...{{/if}} templates used for
// admin notifications and outgoing communications.
//
// Rendering is two passes over the text. Conditional blocks are resolved first, innermost
// first, keeping the body when the variable is non-empty. Placeholders are substituted
// afterwards; unknown variables render as the empty string.
package emailtemplate

import (
	"regexp"
	"strings"
)

const closeTag = "{{/if}}"

var (
	openTagPattern     = regexp.MustCompile(`\{\{#if\s+([A-Za-z0-9_]+)\s*\}\}`)
	placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)
)

// CoordinatorRemoved is sent to admins when a hospital loses its last active coordinator
const CoordinatorRemoved = `{{hospital_name}} no longer has an active coordinator.` +
	`{{#if coordinator_name}} {{coordinator_name}}{{#if coordinator_email}} ({{coordinator_email}}){{/if}} was removed.{{/if}}` +
	` Assign a new coordinator to keep recruitment on track.`

// Render applies vars to tpl
func Render(tpl string, vars map[string]string) string {
	return substitute(resolveConditionals(tpl, vars), vars)
}

// resolveConditionals removes or unwraps {{#if}} blocks. An opening tag without a
// matching close is left as text.
func resolveConditionals(tpl string, vars map[string]string) string {
	for {
		opens := openTagPattern.FindAllStringSubmatchIndex(tpl, -1)
		resolved := false

		// The last opening tag that has a close after it is innermost.
		for i := len(opens) - 1; i >= 0; i-- {
			loc := opens[i]
			bodyStart := loc[1]
			closeAt := strings.Index(tpl[bodyStart:], closeTag)
			if closeAt < 0 {
				continue
			}
			name := tpl[loc[2]:loc[3]]
			body := tpl[bodyStart : bodyStart+closeAt]
			if strings.TrimSpace(vars[name]) == "" {
				body = ""
			}
			tpl = tpl[:loc[0]] + body + tpl[bodyStart+closeAt+len(closeTag):]
			resolved = true
			break
		}

		if !resolved {
			return tpl
		}
	}
}

func substitute(tpl string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(tpl, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		return vars[name]
	})
}
