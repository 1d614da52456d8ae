package forge

import "context"

// Owner identifies the account that owns a repository.
type Owner struct {
	Login string `json:"login"`
}

// Repository is a repository record as listed by the hosting provider.
// JSON tags follow the provider's REST payload.
type Repository struct {
	Name          string `json:"name"`
	Owner         Owner  `json:"owner"`
	Private       bool   `json:"private"`
	Fork          bool   `json:"fork"`
	DefaultBranch string `json:"default_branch"`
	Size          int    `json:"size"`
	CloneURL      string `json:"clone_url"`
	Description   string `json:"description"`
	HTMLURL       string `json:"html_url"`
}

// UserInfo describes the account whose repositories are collected.
type UserInfo struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	HTMLURL     string `json:"html_url"`
	Bio         string `json:"bio"`
	Blog        string `json:"blog"`
	PublicRepos int    `json:"public_repos"`
}

// Docpress is the metadata attached to a repository by the enhancement pass.
type Docpress struct {
	Branch      string   `json:"branch"`
	Filtered    bool     `json:"filtered"`
	Includes    []string `json:"includes"`
	ProjectPath string   `json:"projectPath"`
	RawURL      string   `json:"raw_url"`
	ReplaceURL  string   `json:"replace_url"`
}

// EnhancedRepository is a Repository plus its docpress block.
// Docpress is nil until the record has been enhanced.
type EnhancedRepository struct {
	Repository
	Docpress *Docpress `json:"docpress,omitempty"`
}

// Provider lists repositories and user details from a hosting provider.
type Provider interface {
	ListRepositories(ctx context.Context, username string) ([]*Repository, error)
	GetUserInfo(ctx context.Context, username string) (*UserInfo, error)
}
