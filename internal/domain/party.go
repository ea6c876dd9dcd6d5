package domain

// Party is the minimal read-only view of a marketplace user this core
// needs for notifications. Authentication and profiles are owned by an
// external collaborator.
type Party struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
