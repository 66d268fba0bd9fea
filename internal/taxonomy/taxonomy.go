// Package taxonomy is the static skill dictionary: canonical skill names,
// their aliases and categories, plus filename-based language detection.
// The tables are built once at load time and never mutated afterwards.
package taxonomy

import (
	"strings"

	"github.com/sumedhk0/GitHubAnalyzer/internal/profile"
)

// Taxonomy resolves free-form skill mentions to canonical identities.
type Taxonomy struct {
	skills  map[string]profile.Skill
	aliases map[string]string
}

// New builds the dictionary from the static tables.
func New() *Taxonomy {
	t := &Taxonomy{
		skills:  make(map[string]profile.Skill),
		aliases: make(map[string]string),
	}

	t.register(profile.CategoryLanguage, languageEntries)
	t.register(profile.CategoryFramework, frameworkEntries)
	t.register(profile.CategoryTool, toolEntries)
	t.register(profile.CategoryDomain, domainEntries)
	t.register(profile.CategoryPractice, practiceEntries)

	return t
}

func (t *Taxonomy) register(category profile.SkillCategory, entries []aliasedName) {
	for _, e := range entries {
		skill := profile.Skill{
			ID:       profile.SlugID(e.name),
			Name:     e.name,
			Category: category,
			Aliases:  e.aliases,
		}
		t.skills[e.name] = skill
		for _, alias := range e.aliases {
			t.aliases[strings.ToLower(alias)] = e.name
		}
	}
}

// Normalize maps any casing or registered alias of a skill name to its one
// canonical identity. Total and idempotent: an unknown name normalizes to
// its own lower-cased form.
func (t *Taxonomy) Normalize(name string) string {
	lower := strings.ToLower(name)
	if canonical, ok := t.aliases[lower]; ok {
		return canonical
	}
	return lower
}

// Categorize maps a free-form category string to the closed category set.
// Unmapped strings fall back to Concept.
func (t *Taxonomy) Categorize(category string) profile.SkillCategory {
	switch strings.ToLower(category) {
	case "language":
		return profile.CategoryLanguage
	case "framework":
		return profile.CategoryFramework
	case "library":
		return profile.CategoryLibrary
	case "tool":
		return profile.CategoryTool
	case "domain":
		return profile.CategoryDomain
	case "practice":
		return profile.CategoryPractice
	default:
		return profile.CategoryConcept
	}
}

// Resolve returns the canonical Skill for a mention, synthesizing one for
// names outside the dictionary.
func (t *Taxonomy) Resolve(name string, category profile.SkillCategory) profile.Skill {
	normalized := t.Normalize(name)
	if skill, ok := t.skills[normalized]; ok {
		return skill
	}
	return profile.Skill{
		ID:       profile.SlugID(normalized),
		Name:     name,
		Category: category,
	}
}

type aliasedName struct {
	name    string
	aliases []string
}

var languageEntries = []aliasedName{
	{"rust", []string{"rs"}},
	{"python", []string{"py", "python3"}},
	{"javascript", []string{"js", "ecmascript", "es6", "es2015"}},
	{"typescript", []string{"ts"}},
	{"go", []string{"golang"}},
	{"java", nil},
	{"kotlin", []string{"kt"}},
	{"swift", nil},
	{"c", nil},
	{"cpp", []string{"c++", "cxx"}},
	{"csharp", []string{"c#", "cs"}},
	{"ruby", []string{"rb"}},
	{"php", nil},
	{"scala", nil},
	{"haskell", []string{"hs"}},
	{"elixir", []string{"ex"}},
	{"sql", []string{"plsql", "tsql"}},
	{"shell", []string{"bash", "sh", "zsh"}},
}

var frameworkEntries = []aliasedName{
	{"react", []string{"reactjs", "react.js"}},
	{"vue", []string{"vuejs", "vue.js"}},
	{"angular", []string{"angularjs"}},
	{"svelte", []string{"sveltekit"}},
	{"nextjs", []string{"next.js", "next"}},
	{"nuxt", []string{"nuxtjs", "nuxt.js"}},
	{"express", []string{"expressjs"}},
	{"django", nil},
	{"flask", nil},
	{"fastapi", nil},
	{"spring", []string{"spring boot", "springboot"}},
	{"rails", []string{"ruby on rails", "ror"}},
	{"actix", []string{"actix-web"}},
	{"axum", nil},
	{"rocket", nil},
	{"gin", nil},
	{"echo", nil},
	{"react native", []string{"react-native", "rn"}},
	{"flutter", nil},
	{"swiftui", nil},
}

var toolEntries = []aliasedName{
	{"docker", []string{"dockerfile", "containerization"}},
	{"kubernetes", []string{"k8s"}},
	{"terraform", []string{"tf", "iac"}},
	{"aws", []string{"amazon web services"}},
	{"gcp", []string{"google cloud", "google cloud platform"}},
	{"azure", []string{"microsoft azure"}},
	{"git", nil},
	{"github actions", []string{"gha"}},
	{"gitlab ci", []string{"gitlab-ci"}},
	{"jenkins", nil},
	{"postgresql", []string{"postgres", "psql"}},
	{"mysql", []string{"mariadb"}},
	{"mongodb", []string{"mongo"}},
	{"redis", nil},
	{"elasticsearch", []string{"elastic", "es"}},
	{"graphql", []string{"gql"}},
	{"rest api", []string{"restful", "rest"}},
}

var domainEntries = []aliasedName{
	{"machine learning", []string{"ml", "deep learning", "dl", "ai"}},
	{"data science", []string{"data analysis", "analytics"}},
	{"devops", []string{"sre", "platform engineering"}},
	{"security", []string{"cybersecurity", "infosec", "appsec"}},
	{"frontend", []string{"front-end", "ui", "client-side"}},
	{"backend", []string{"back-end", "server-side"}},
	{"fullstack", []string{"full-stack", "full stack"}},
	{"mobile", []string{"ios", "android", "mobile development"}},
	{"embedded", []string{"embedded systems", "iot"}},
	{"distributed systems", []string{"microservices", "distributed"}},
	{"databases", []string{"database design", "data modeling"}},
}

var practiceEntries = []aliasedName{
	{"testing", []string{"unit testing", "tdd", "test-driven", "integration testing"}},
	{"documentation", []string{"docs", "technical writing"}},
	{"code review", []string{"pr review", "pull request review"}},
	{"ci/cd", []string{"continuous integration", "continuous deployment", "continuous delivery"}},
	{"agile", []string{"scrum", "kanban"}},
	{"clean code", []string{"solid", "dry", "kiss"}},
	{"refactoring", nil},
	{"debugging", []string{"troubleshooting"}},
	{"performance optimization", []string{"perf", "optimization"}},
	{"error handling", []string{"exception handling"}},
}
