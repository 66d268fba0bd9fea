package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sumedhk0/GitHubAnalyzer/internal/github"
	"github.com/sumedhk0/GitHubAnalyzer/internal/profile"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	username TEXT UNIQUE NOT NULL,
	name TEXT,
	avatar_url TEXT,
	bio TEXT,
	company TEXT,
	location TEXT,
	public_repos INTEGER,
	followers INTEGER,
	created_at TEXT
);

CREATE TABLE IF NOT EXISTS profiles (
	id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id),
	total_commits_analyzed INTEGER,
	analysis_date TEXT NOT NULL,
	summary_json TEXT,
	UNIQUE(user_id)
);

CREATE TABLE IF NOT EXISTS skills (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	UNIQUE(name, category)
);

CREATE TABLE IF NOT EXISTS skill_ratings (
	id INTEGER PRIMARY KEY,
	profile_id INTEGER NOT NULL REFERENCES profiles(id),
	skill_id INTEGER NOT NULL REFERENCES skills(id),
	proficiency_score INTEGER NOT NULL,
	confidence REAL NOT NULL,
	trend TEXT,
	evidence_json TEXT,
	UNIQUE(profile_id, skill_id)
);

CREATE INDEX IF NOT EXISTS idx_profiles_user_id ON profiles(user_id);
CREATE INDEX IF NOT EXISTS idx_skill_ratings_profile_id ON skill_ratings(profile_id);
CREATE INDEX IF NOT EXISTS idx_skill_ratings_skill_id ON skill_ratings(skill_id);
`

// Store persists analyzed profiles in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database file and initializes the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=30000", path)
	return open(dsn)
}

// InMemory opens a throwaway database, used by tests.
func InMemory() (*Store, error) {
	return open(":memory:?_foreign_keys=ON")
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps :memory: databases and WAL writers sane.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveProfile upserts the user and profile rows and replaces all skill
// ratings belonging to the profile.
func (s *Store) SaveProfile(p *profile.UserProfile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO users (username, name, avatar_url, bio, company, location, public_repos, followers, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			name = excluded.name,
			avatar_url = excluded.avatar_url,
			bio = excluded.bio,
			company = excluded.company,
			location = excluded.location,
			public_repos = excluded.public_repos,
			followers = excluded.followers`,
		p.User.Login, p.User.Name, p.User.AvatarURL, p.User.Bio, p.User.Company,
		p.User.Location, p.User.PublicRepos, p.User.Followers,
		p.User.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	var userID int64
	if err := tx.QueryRow("SELECT id FROM users WHERE username = ?", p.User.Login).Scan(&userID); err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	summaryJSON, err := json.Marshal(p.Summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO profiles (user_id, total_commits_analyzed, analysis_date, summary_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			total_commits_analyzed = excluded.total_commits_analyzed,
			analysis_date = excluded.analysis_date,
			summary_json = excluded.summary_json`,
		userID, p.TotalCommitsAnalyzed, p.AnalysisDate.Format(time.RFC3339), string(summaryJSON))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	var profileID int64
	if err := tx.QueryRow("SELECT id FROM profiles WHERE user_id = ?", userID).Scan(&profileID); err != nil {
		return fmt.Errorf("lookup profile: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM skill_ratings WHERE profile_id = ?", profileID); err != nil {
		return fmt.Errorf("clear ratings: %w", err)
	}

	for _, rating := range p.Skills {
		if _, err := tx.Exec("INSERT OR IGNORE INTO skills (name, category) VALUES (?, ?)",
			rating.Skill.Name, string(rating.Skill.Category)); err != nil {
			return fmt.Errorf("upsert skill %q: %w", rating.Skill.Name, err)
		}

		var skillID int64
		if err := tx.QueryRow("SELECT id FROM skills WHERE name = ? AND category = ?",
			rating.Skill.Name, string(rating.Skill.Category)).Scan(&skillID); err != nil {
			return fmt.Errorf("lookup skill %q: %w", rating.Skill.Name, err)
		}

		evidenceJSON, err := json.Marshal(rating.Evidence)
		if err != nil {
			return fmt.Errorf("encode evidence: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO skill_ratings (profile_id, skill_id, proficiency_score, confidence, trend, evidence_json)
			VALUES (?, ?, ?, ?, ?, ?)`,
			profileID, skillID, rating.ProficiencyScore, rating.Confidence,
			string(rating.Trend), string(evidenceJSON))
		if err != nil {
			return fmt.Errorf("insert rating %q: %w", rating.Skill.Name, err)
		}
	}

	return tx.Commit()
}

// LoadProfile returns the stored profile for a username. The second return
// is false when no profile exists. Repositories are not persisted and come
// back empty.
func (s *Store) LoadProfile(username string) (*profile.UserProfile, bool, error) {
	row := s.db.QueryRow(`
		SELECT p.id, p.total_commits_analyzed, p.analysis_date, p.summary_json,
		       u.id, u.username, u.name, u.avatar_url, u.bio, u.company, u.location,
		       u.public_repos, u.followers, u.created_at
		FROM profiles p
		JOIN users u ON p.user_id = u.id
		WHERE u.username = ?`, username)

	var (
		profileID    int64
		totalCommits int
		analysisDate string
		summaryJSON  string
		user         github.User
		createdAt    string
	)
	err := row.Scan(&profileID, &totalCommits, &analysisDate, &summaryJSON,
		&user.ID, &user.Login, &user.Name, &user.AvatarURL, &user.Bio,
		&user.Company, &user.Location, &user.PublicRepos, &user.Followers, &createdAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load profile: %w", err)
	}

	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	var summary profile.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		summary = profile.DefaultSummary()
	}

	date, err := time.Parse(time.RFC3339, analysisDate)
	if err != nil {
		date = time.Now()
	}

	skills, err := s.loadRatings(profileID)
	if err != nil {
		return nil, false, err
	}

	return &profile.UserProfile{
		User:                 user,
		TotalCommitsAnalyzed: totalCommits,
		AnalysisDate:         date,
		Skills:               skills,
		Summary:              summary,
	}, true, nil
}

func (s *Store) loadRatings(profileID int64) ([]profile.SkillRating, error) {
	rows, err := s.db.Query(`
		SELECT s.name, s.category, sr.proficiency_score, sr.confidence, sr.trend, sr.evidence_json
		FROM skill_ratings sr
		JOIN skills s ON sr.skill_id = s.id
		WHERE sr.profile_id = ?
		ORDER BY sr.proficiency_score DESC`, profileID)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	defer rows.Close()

	var ratings []profile.SkillRating
	for rows.Next() {
		var (
			name, category, trend, evidenceJSON string
			rating                              profile.SkillRating
		)
		if err := rows.Scan(&name, &category, &rating.ProficiencyScore,
			&rating.Confidence, &trend, &evidenceJSON); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}

		rating.Skill = profile.Skill{
			ID:       profile.SlugID(strings.ToLower(name)),
			Name:     name,
			Category: profile.SkillCategory(category),
		}
		rating.Trend = profile.SkillTrend(trend)
		if err := json.Unmarshal([]byte(evidenceJSON), &rating.Evidence); err != nil {
			rating.Evidence = profile.SkillEvidence{}
		}

		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// ListProfiles returns stored usernames, most recently analyzed first.
func (s *Store) ListProfiles() ([]string, error) {
	rows, err := s.db.Query(`
		SELECT u.username
		FROM profiles p
		JOIN users u ON p.user_id = u.id
		ORDER BY p.analysis_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan username: %w", err)
		}
		usernames = append(usernames, name)
	}
	return usernames, rows.Err()
}
