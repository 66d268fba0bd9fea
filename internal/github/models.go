package github

import "time"

// User is a GitHub account as returned by the users endpoint.
type User struct {
	Login       string    `json:"login"`
	ID          int64     `json:"id"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	AvatarURL   string    `json:"avatar_url"`
	Bio         string    `json:"bio,omitempty"`
	Company     string    `json:"company,omitempty"`
	Location    string    `json:"location,omitempty"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository is an owned repository. Immutable once fetched.
type Repository struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	FullName    string          `json:"full_name"`
	Description string          `json:"description,omitempty"`
	Language    string          `json:"language,omitempty"`
	Stargazers  int             `json:"stargazers_count"`
	Forks       int             `json:"forks_count"`
	Fork        bool            `json:"fork"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Owner       RepositoryOwner `json:"owner"`
}

// RepositoryOwner is the owning account reference.
type RepositoryOwner struct {
	Login string `json:"login"`
}

// CommitSummary is one entry of the paged commit listing.
type CommitSummary struct {
	SHA    string        `json:"sha"`
	Commit CommitDetails `json:"commit"`
}

// CommitDetails carries the message and author of a commit.
type CommitDetails struct {
	Message string       `json:"message"`
	Author  CommitAuthor `json:"author"`
}

// CommitAuthor is the git-level author of a commit.
type CommitAuthor struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// Commit is the full commit record including per-file diffs and stats.
type Commit struct {
	SHA    string        `json:"sha"`
	Commit CommitDetails `json:"commit"`
	Stats  CommitStats   `json:"stats"`
	Files  []FileChange  `json:"files"`
}

// CommitStats is the line-change summary of a commit.
type CommitStats struct {
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
	Total     int `json:"total"`
}

// FileChange is one changed file within a commit.
type FileChange struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Patch     string `json:"patch,omitempty"`
}
