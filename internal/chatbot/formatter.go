package chatbot

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/onboarding-portal/internal/query"
)

const schemaFieldPreview = 5

type noun struct {
	singular string
	plural   string
}

var nouns = map[string]noun{
	query.CollectionCandidates:            {"candidate", "candidates"},
	query.CollectionEmployees:             {"employee", "employees"},
	query.CollectionUsers:                 {"user", "users"},
	query.CollectionOnboardingSubmissions: {"onboarding submission", "onboarding submissions"},
}

func nounFor(collection string) noun {
	if n, ok := nouns[collection]; ok {
		return n
	}
	lower := strings.ToLower(collection)
	return noun{strings.TrimSuffix(lower, "s"), lower}
}

// Format renders a query result as chat text.
func Format(result *Result) string {
	if result == nil {
		return ""
	}
	switch result.Type {
	case QueryCount:
		return formatCount(result)
	case QueryFind:
		return formatFind(result)
	case QueryStats:
		return formatStats(result)
	case QuerySchema:
		return formatSchema(result.Schema)
	default:
		return ""
	}
}

func formatCount(result *Result) string {
	n := nounFor(result.Collection)
	switch result.Count {
	case 0:
		return fmt.Sprintf("No %s found matching your criteria.", n.plural)
	case 1:
		return fmt.Sprintf("Found **1** %s.", n.singular)
	default:
		return fmt.Sprintf("Found **%d** %s.", result.Count, n.plural)
	}
}

func formatFind(result *Result) string {
	if result.Count == 0 || len(result.Rows) == 0 {
		return formatCount(result)
	}

	var b strings.Builder
	n := nounFor(result.Collection)
	if result.Count == 1 {
		fmt.Fprintf(&b, "Found **1** %s:\n", n.singular)
	} else {
		fmt.Fprintf(&b, "Found **%d** %s:\n", result.Count, n.plural)
	}

	for i, row := range result.Rows {
		fmt.Fprintf(&b, "\n%d. %s", i+1, strings.Join(rowParts(row), " | "))
	}

	if int64(len(result.Rows)) < result.Count {
		fmt.Fprintf(&b, "\n\nShowing first %d results.", len(result.Rows))
	}
	return b.String()
}

func rowParts(row query.Document) []string {
	var parts []string

	if name := text(row["fullName"]); name != "" {
		parts = append(parts, "**"+name+"**")
	} else if first, last := text(row["firstName"]), text(row["lastName"]); first != "" {
		parts = append(parts, "**"+strings.TrimSpace(first+" "+last)+"**")
	}
	if id := text(row["employeeId"]); id != "" {
		parts = append(parts, id)
	}
	for _, key := range []string{"email", "position", "department", "role"} {
		if v := text(row[key]); v != "" {
			parts = append(parts, v)
		}
	}
	if v := text(row["offerStatus"]); v != "" {
		parts = append(parts, "Offer: "+v)
	} else if v := text(row["status"]); v != "" {
		parts = append(parts, "Status: "+v)
	}
	if active, ok := row["isActive"].(bool); ok {
		if active {
			parts = append(parts, "Active")
		} else {
			parts = append(parts, "Inactive")
		}
	}
	return parts
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	default:
		return fmt.Sprint(x)
	}
}

func formatStats(result *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s Statistics**\n", result.Collection)
	if result.Stats == nil {
		return b.String()
	}

	fmt.Fprintf(&b, "\nTotal: **%d**\n", result.Stats.Total)
	writeGroups(&b, "By Status", result.Stats.ByStatus)
	writeGroups(&b, "By Department", result.Stats.ByDepartment)
	return b.String()
}

func writeGroups(b *strings.Builder, title string, groups []query.GroupCount) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**%s:**\n", title)
	for _, g := range groups {
		fmt.Fprintf(b, "  • %s: %d\n", g.Key, g.Count)
	}
}

func formatSchema(infos []query.CollectionInfo) string {
	var b strings.Builder
	b.WriteString("**Available Collections**\n")
	for _, info := range infos {
		fields := info.Fields
		more := ""
		if len(fields) > schemaFieldPreview {
			fields = fields[:schemaFieldPreview]
			more = "..."
		}
		fmt.Fprintf(&b, "\n**%s**\n", info.Name)
		fmt.Fprintf(&b, "   %s\n", info.Description)
		fmt.Fprintf(&b, "   Fields: %s%s\n", strings.Join(fields, ", "), more)
	}
	return b.String()
}
