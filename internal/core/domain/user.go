package domain

// User is the owner of accounts. Authentication details live with the
// identity collaborator; the engine only needs the id to exist.
type User struct {
	UserID       string `json:"userID"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AuditFields
}
