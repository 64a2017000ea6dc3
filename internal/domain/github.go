// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Status is the render state of a widget. Exactly one applies at any time.
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

// Repository is a public repository summary as shown by the GitHub widget.
type Repository struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	HTMLURL         string    `json:"html_url"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	Language        string    `json:"language"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// GitHubActivity is a snapshot of the GitHub widget.
type GitHubActivity struct {
	Status          Status       `json:"status"`
	Username        string       `json:"username"`
	ProfileURL      string       `json:"profile_url"`
	RepositoriesURL string       `json:"repositories_url"`
	Repositories    []Repository `json:"repositories"`
	// Contributions is nil when the count could not be fetched.
	Contributions *int      `json:"contributions,omitempty"`
	Error         string    `json:"error,omitempty"`
	FetchedAt     time.Time `json:"fetched_at,omitzero"`
}

// LoadingGitHubActivity returns the snapshot shown before any data has arrived.
func LoadingGitHubActivity(username string) GitHubActivity {
	return GitHubActivity{
		Status:          StatusLoading,
		Username:        username,
		ProfileURL:      "https://github.com/" + username,
		RepositoriesURL: "https://github.com/" + username + "?tab=repositories",
		Repositories:    []Repository{},
	}
}
