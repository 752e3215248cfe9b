package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Default allow-lists for the khonsulabs deployment. Overridable via env so
// other orgs can run the service unchanged.
var (
	defaultContributorEmails = []string{
		"jon@khonsulabs.com",
		"daxpedda@gmail.com",
	}
	defaultForkedRepositories = []string{
		"iqlusioninc/crates",
		"novifinancial/opaque-ke",
		"dalek-cryptography/curve25519-dalek",
		"RustCrypto/password-hashes",
		"novifinancial/voprf",
	}
)

type Config struct {
	Port               string
	DBConnectionString string
	GitHubToken        string
	GitHubOrg          string
	PollInterval       time.Duration
	FetchTimeout       time.Duration
	DigestWindowDays   int
	ForkedRepositories []string
	ContributorEmails  []string
	ProjectsFile       string
	WebDir             string
}

func Load() (*Config, error) {
	port := getEnv("PORT", "8080")
	dbConnStr := getEnv("DB_CONNECTION_STRING", "")
	githubToken := getEnv("GITHUB_TOKEN", "")
	githubOrg := getEnv("GITHUB_ORG", "khonsulabs")

	pollSeconds, err := strconv.Atoi(getEnv("POLL_INTERVAL_SECONDS", "300"))
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "120"))
	if err != nil {
		return nil, err
	}
	windowDays, err := strconv.Atoi(getEnv("DIGEST_WINDOW_DAYS", "28"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               port,
		DBConnectionString: dbConnStr,
		GitHubToken:        githubToken,
		GitHubOrg:          githubOrg,
		PollInterval:       time.Duration(pollSeconds) * time.Second,
		FetchTimeout:       time.Duration(fetchTimeout) * time.Second,
		DigestWindowDays:   windowDays,
		ForkedRepositories: getEnvList("FORKED_REPOSITORIES", defaultForkedRepositories),
		ContributorEmails:  getEnvList("CONTRIBUTOR_EMAILS", defaultContributorEmails),
		ProjectsFile:       getEnv("PROJECTS_FILE", "projects.yml"),
		WebDir:             getEnv("WEB_DIR", "web"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
