package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table               string
	ID                  string
	Username            string
	Password            string
	FullName            string
	Role                string
	IsActive            string
	FailedLoginAttempts string
	LockoutUntil        string
	LastLoginAt         string
	CreatedAt           string
	UpdatedAt           string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:               "users.account",
	ID:                  "id",
	Username:            "username",
	Password:            "passwordhash",
	FullName:            "fullname",
	Role:                "role",
	IsActive:            "isactive",
	FailedLoginAttempts: "failedloginattempts",
	LockoutUntil:        "lockoutuntil",
	LastLoginAt:         "lastloginat",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Password, t.FullName, t.Role, t.IsActive,
		t.FailedLoginAttempts, t.LockoutUntil, t.LastLoginAt, t.CreatedAt, t.UpdatedAt,
	}
}
