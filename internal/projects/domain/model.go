// Package domain defines the Project entity and its store contract.
package domain

import "errors"

var (
	// ErrNotFound means the addressed (projectId, version) row does not exist.
	ErrNotFound = errors.New("project not found")
	// ErrDuplicate means a create collided with an existing projectId.
	ErrDuplicate = errors.New("project already exists")
	// ErrVersionConflict means a concurrent writer already produced the next
	// version; the caller must re-fetch and retry with the latest version.
	ErrVersionConflict = errors.New("project version conflict")
)

type ProjectCategory string

const (
	CategorySelfPortrait ProjectCategory = "SELF_PORTRAIT"
	CategoryLandscape    ProjectCategory = "LANDSCAPE"
	CategoryStreet       ProjectCategory = "STREET"
	CategoryMacro        ProjectCategory = "MACRO"
	CategoryPortrait     ProjectCategory = "PORTRAIT"
	CategoryStillLife    ProjectCategory = "STILL_LIFE"
	CategoryArchitecture ProjectCategory = "ARCHITECTURE"
	CategoryWildlife     ProjectCategory = "WILDLIFE"
	CategorySports       ProjectCategory = "SPORTS"
	CategoryNight        ProjectCategory = "NIGHT"
)

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "BEGINNER"
	DifficultyIntermediate DifficultyLevel = "INTERMEDIATE"
	DifficultyAdvanced     DifficultyLevel = "ADVANCED"
)

type Duration struct {
	Days      int     `dynamodbav:"days" json:"days"`
	StartDate *string `dynamodbav:"startDate" json:"startDate"`
	EndDate   *string `dynamodbav:"endDate" json:"endDate"`
}

type Mission struct {
	Text              string   `dynamodbav:"text" json:"text"`
	DailyRequirements []string `dynamodbav:"dailyRequirements" json:"dailyRequirements"`
}

type Tip struct {
	Title       string `dynamodbav:"title" json:"title"`
	Description string `dynamodbav:"description" json:"description"`
}

type Equipment struct {
	Required []string `dynamodbav:"required" json:"required"`
	Optional []string `dynamodbav:"optional" json:"optional"`
}

type Milestone struct {
	Day     int    `dynamodbav:"day" json:"day"`
	Title   string `dynamodbav:"title" json:"title"`
	Message string `dynamodbav:"message" json:"message"`
}

type ProgressTracking struct {
	Milestones []Milestone `dynamodbav:"milestones" json:"milestones"`
}

type Feedback struct {
	Policy string `dynamodbav:"policy" json:"policy"`
}

// Project is a versioned record: the table key is (projectId, version) and
// every successful update writes a new row at version+1, so the table holds
// the full version history of each project.
//
// IsActive and IsPublished are independent flags; any combination is valid
// and no lifecycle enum is implied.
type Project struct {
	ProjectID           string           `dynamodbav:"projectId" json:"projectId"`
	Version             int              `dynamodbav:"version" json:"version"`
	ProjectNumber       int              `dynamodbav:"projectNumber" json:"projectNumber"`
	Title               string           `dynamodbav:"title" json:"title"`
	ShortDescription    string           `dynamodbav:"shortDescription" json:"shortDescription"`
	FullDescription     string           `dynamodbav:"fullDescription" json:"fullDescription"`
	Duration            Duration         `dynamodbav:"duration" json:"duration"`
	Mission             Mission          `dynamodbav:"mission" json:"mission"`
	Rules               []string         `dynamodbav:"rules" json:"rules"`
	Tips                []Tip            `dynamodbav:"tips" json:"tips"`
	Reminders           []string         `dynamodbav:"reminders" json:"reminders"`
	SharingInstructions []string         `dynamodbav:"sharingInstructions" json:"sharingInstructions"`
	Feedback            Feedback         `dynamodbav:"feedback" json:"feedback"`
	ProjectCategory     ProjectCategory  `dynamodbav:"projectCategory" json:"projectCategory"`
	DifficultyLevel     DifficultyLevel  `dynamodbav:"difficultyLevel" json:"difficultyLevel"`
	TechnicalFocus      []string         `dynamodbav:"technicalFocus" json:"technicalFocus"`
	Equipment           Equipment        `dynamodbav:"equipment" json:"equipment"`
	ProgressTracking    ProgressTracking `dynamodbav:"progressTracking" json:"progressTracking"`
	FollowUpQuestions   []string         `dynamodbav:"followUpQuestions" json:"followUpQuestions"`
	RelatedProjects     []string         `dynamodbav:"relatedProjects" json:"relatedProjects"`
	CreatedAt           string           `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt           string           `dynamodbav:"updatedAt" json:"updatedAt"`
	CreatedBy           string           `dynamodbav:"createdBy" json:"createdBy"`
	IsActive            bool             `dynamodbav:"isActive" json:"isActive"`
	IsPublished         bool             `dynamodbav:"isPublished" json:"isPublished"`
}

// CreateInput carries the caller-supplied fields of a new project. The store
// stamps projectId, version, timestamps and the initial lifecycle flags.
type CreateInput struct {
	ProjectNumber       int              `json:"projectNumber"`
	Title               string           `json:"title"`
	ShortDescription    string           `json:"shortDescription"`
	FullDescription     string           `json:"fullDescription"`
	Duration            Duration         `json:"duration"`
	Mission             Mission          `json:"mission"`
	Rules               []string         `json:"rules"`
	Tips                []Tip            `json:"tips"`
	Reminders           []string         `json:"reminders"`
	SharingInstructions []string         `json:"sharingInstructions"`
	Feedback            Feedback         `json:"feedback"`
	ProjectCategory     ProjectCategory  `json:"projectCategory"`
	DifficultyLevel     DifficultyLevel  `json:"difficultyLevel"`
	TechnicalFocus      []string         `json:"technicalFocus"`
	Equipment           Equipment        `json:"equipment"`
	ProgressTracking    ProgressTracking `json:"progressTracking"`
	FollowUpQuestions   []string         `json:"followUpQuestions"`
	RelatedProjects     []string         `json:"relatedProjects"`
	CreatedBy           string           `json:"createdBy"`
}

// UpdateInput is the allow-listed patch for an optimistic update. Nil fields
// are left unchanged. System-managed fields (projectId, version, createdAt,
// updatedAt) are deliberately absent so callers can never overwrite them.
type UpdateInput struct {
	ProjectNumber       *int              `json:"projectNumber"`
	Title               *string           `json:"title"`
	ShortDescription    *string           `json:"shortDescription"`
	FullDescription     *string           `json:"fullDescription"`
	Duration            *Duration         `json:"duration"`
	Mission             *Mission          `json:"mission"`
	Rules               []string          `json:"rules"`
	Tips                []Tip             `json:"tips"`
	Reminders           []string          `json:"reminders"`
	SharingInstructions []string          `json:"sharingInstructions"`
	Feedback            *Feedback         `json:"feedback"`
	ProjectCategory     *ProjectCategory  `json:"projectCategory"`
	DifficultyLevel     *DifficultyLevel  `json:"difficultyLevel"`
	TechnicalFocus      []string          `json:"technicalFocus"`
	Equipment           *Equipment        `json:"equipment"`
	ProgressTracking    *ProgressTracking `json:"progressTracking"`
	FollowUpQuestions   []string          `json:"followUpQuestions"`
	RelatedProjects     []string          `json:"relatedProjects"`
	IsActive            *bool             `json:"isActive"`
	IsPublished         *bool             `json:"isPublished"`
}

// Apply merges the patch into p, leaving nil fields untouched.
func (in UpdateInput) Apply(p *Project) {
	if in.ProjectNumber != nil {
		p.ProjectNumber = *in.ProjectNumber
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.ShortDescription != nil {
		p.ShortDescription = *in.ShortDescription
	}
	if in.FullDescription != nil {
		p.FullDescription = *in.FullDescription
	}
	if in.Duration != nil {
		p.Duration = *in.Duration
	}
	if in.Mission != nil {
		p.Mission = *in.Mission
	}
	if in.Rules != nil {
		p.Rules = in.Rules
	}
	if in.Tips != nil {
		p.Tips = in.Tips
	}
	if in.Reminders != nil {
		p.Reminders = in.Reminders
	}
	if in.SharingInstructions != nil {
		p.SharingInstructions = in.SharingInstructions
	}
	if in.Feedback != nil {
		p.Feedback = *in.Feedback
	}
	if in.ProjectCategory != nil {
		p.ProjectCategory = *in.ProjectCategory
	}
	if in.DifficultyLevel != nil {
		p.DifficultyLevel = *in.DifficultyLevel
	}
	if in.TechnicalFocus != nil {
		p.TechnicalFocus = in.TechnicalFocus
	}
	if in.Equipment != nil {
		p.Equipment = *in.Equipment
	}
	if in.ProgressTracking != nil {
		p.ProgressTracking = *in.ProgressTracking
	}
	if in.FollowUpQuestions != nil {
		p.FollowUpQuestions = in.FollowUpQuestions
	}
	if in.RelatedProjects != nil {
		p.RelatedProjects = in.RelatedProjects
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}
}
