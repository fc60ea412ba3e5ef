package query

const (
	CollectionCandidates            = "Candidates"
	CollectionEmployees             = "Employees"
	CollectionUsers                 = "Users"
	CollectionOnboardingSubmissions = "OnboardingSubmissions"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindBool
	kindNumber
	kindTime
)

type field struct {
	name   string
	column string
	kind   fieldKind
}

type collectionSpec struct {
	name        string
	table       string
	description string
	fields      []field
	status      string
	department  string
	defaultSort string
}

func (c *collectionSpec) lookup(name string) (field, bool) {
	for _, f := range c.fields {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

func (c *collectionSpec) fieldNames() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.name
	}
	return names
}

func (c *collectionSpec) columns() []string {
	cols := make([]string, len(c.fields))
	for i, f := range c.fields {
		cols[i] = f.column
	}
	return cols
}

// collectionOrder fixes the listing order of the schema summary.
var collectionOrder = []string{
	CollectionCandidates,
	CollectionEmployees,
	CollectionUsers,
	CollectionOnboardingSubmissions,
}

// Only non-sensitive columns are listed. Bank, identity, password and document
// columns never appear here and therefore can never be filtered, sorted or read.
var collections = map[string]*collectionSpec{
	CollectionCandidates: {
		name:        CollectionCandidates,
		table:       "candidates",
		description: "Candidate information and offer status",
		fields: []field{
			{name: "fullName", column: "full_name", kind: kindString},
			{name: "email", column: "email", kind: kindString},
			{name: "position", column: "position", kind: kindString},
			{name: "department", column: "department", kind: kindString},
			{name: "offerStatus", column: "offer_status", kind: kindString},
			{name: "joiningTriggered", column: "joining_triggered", kind: kindBool},
			{name: "createdAt", column: "created_at", kind: kindTime},
		},
		status:      "offerStatus",
		department:  "department",
		defaultSort: "created_at DESC",
	},
	CollectionEmployees: {
		name:        CollectionEmployees,
		table:       "employees",
		description: "Employee directory records",
		fields: []field{
			{name: "employeeId", column: "employee_id", kind: kindString},
			{name: "fullName", column: "full_name", kind: kindString},
			{name: "firstName", column: "first_name", kind: kindString},
			{name: "lastName", column: "last_name", kind: kindString},
			{name: "email", column: "email", kind: kindString},
			{name: "department", column: "department", kind: kindString},
			{name: "position", column: "position", kind: kindString},
			{name: "isActive", column: "is_active", kind: kindBool},
			{name: "joiningDate", column: "joining_date", kind: kindTime},
			{name: "createdAt", column: "created_at", kind: kindTime},
		},
		status:      "isActive",
		department:  "department",
		defaultSort: "created_at DESC",
	},
	CollectionUsers: {
		name:        CollectionUsers,
		table:       "users",
		description: "Portal user accounts",
		fields: []field{
			{name: "fullName", column: "full_name", kind: kindString},
			{name: "email", column: "email", kind: kindString},
			{name: "role", column: "role", kind: kindString},
			{name: "employeeId", column: "employee_id", kind: kindString},
			{name: "isActive", column: "is_active", kind: kindBool},
			{name: "createdAt", column: "created_at", kind: kindTime},
		},
		status:      "isActive",
		defaultSort: "created_at DESC",
	},
	CollectionOnboardingSubmissions: {
		name:        CollectionOnboardingSubmissions,
		table:       "onboarding_submissions",
		description: "Onboarding submissions and review progress",
		fields: []field{
			{name: "fullName", column: "full_name", kind: kindString},
			{name: "email", column: "email", kind: kindString},
			{name: "department", column: "department", kind: kindString},
			{name: "status", column: "status", kind: kindString},
			{name: "dateOfJoining", column: "date_of_joining", kind: kindTime},
			{name: "employeeCreated", column: "employee_created", kind: kindBool},
			{name: "employeeId", column: "employee_id", kind: kindString},
			{name: "reviewedAt", column: "reviewed_at", kind: kindTime},
			{name: "createdAt", column: "created_at", kind: kindTime},
		},
		status:      "status",
		department:  "department",
		defaultSort: "created_at DESC",
	},
}
