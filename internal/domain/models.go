package domain

import "time"

// Role is the account role stored on the user record.
type Role string

const (
	RoleUser       Role = "User"
	RoleAdmin      Role = "Admin"
	RoleSuperAdmin Role = "SuperAdmin"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin || r == RoleSuperAdmin
}

// Difficulty classifies modules and quizzes. A quiz's difficulty is set
// independently of its parent module's, which is what makes cross-module
// difficulty pools possible.
type Difficulty string

const (
	DifficultyBeginner Difficulty = "Beginner"
	DifficultyPro      Difficulty = "Pro"
	DifficultyExpert   Difficulty = "Expert"
)

// ValidDifficulty reports whether d is a known difficulty tier.
func ValidDifficulty(d Difficulty) bool {
	return d == DifficultyBeginner || d == DifficultyPro || d == DifficultyExpert
}

// User is the directory record for an account. AuthenticationID links it
// 1:1 to an identity-provider credential and never changes. Email edits
// here do not propagate to the identity provider.
type User struct {
	ID               string `json:"id"`
	FullName         string `json:"fullName"`
	DateOfBirth      string `json:"dateOfBirth"` // DD/MM/YYYY
	Email            string `json:"email"`
	Role             Role   `json:"role"`
	AuthenticationID string `json:"authenticationId"`
}

// Module is a top-level content unit. Its ID is its name.
type Module struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Duration    string     `json:"duration"`
	Difficulty  Difficulty `json:"difficulty"`
	ContentURL  string     `json:"contentUrl"`
}

// Quiz is a scored question set belonging to a module. ID is its name,
// unique within the module. PassingScore is nil when the quiz does not
// set its own threshold; an explicit 0 means every attempt passes.
type Quiz struct {
	ID           string     `json:"id"`
	ModuleID     string     `json:"moduleId"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Difficulty   Difficulty `json:"difficulty"`
	PassingScore *int       `json:"passingScore,omitempty"` // 0-100
}

// Question is an MCQ with four options and exactly one correct option,
// which must be one of the four. IDs are generated keys.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correctOption,omitempty"`
}

// HasOption reports whether option is one of the question's declared options.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Progress is the per-user, per-module record of the most recent quiz
// completion. Overwritten wholesale each time a quiz in the module finishes.
type Progress struct {
	ModuleID      string    `json:"moduleId"`
	Score         int       `json:"score"` // 0-100
	Badge         Badge     `json:"badge"`
	LastCompleted time.Time `json:"lastCompleted"`
}

// Post is a forum entry owned by its author.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`

	// Denormalized at read time from the author's user record.
	AuthorName string `json:"authorName,omitempty"`
	AuthorRole Role   `json:"authorRole,omitempty"`
}

// Comment hangs off a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`

	AuthorName string `json:"authorName,omitempty"`
	AuthorRole Role   `json:"authorRole,omitempty"`
}

// Session is the device-local copy of the signed-in user. It is a cache
// for UI decisions; the directory's user record stays authoritative.
type Session struct {
	UserID           string `json:"userId"`
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	DateOfBirth      string `json:"dateOfBirth"`
	Role             Role   `json:"role"`
	AuthenticationID string `json:"authenticationId"`
	LoggedIn         bool   `json:"loggedIn"`
}

// QuizScope selects the question set for an attempt: either one quiz of
// one module, or the pool of every question belonging to a quiz of the
// given difficulty across all modules.
type QuizScope struct {
	ModuleID   string     `json:"moduleId,omitempty"`
	QuizID     string     `json:"quizId,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// IsPool reports whether the scope is a cross-module difficulty pool.
func (s QuizScope) IsPool() bool { return s.ModuleID == "" && s.Difficulty != "" }

// QuizResult is the outcome of a finished attempt. Persisted reports
// whether the progress write landed; the computation always succeeds
// once an attempt reaches the last question.
type QuizResult struct {
	Score     int   `json:"score"`
	Badge     Badge `json:"badge"`
	Passed    bool  `json:"passed"`
	Persisted bool  `json:"persisted"`
}
