package validator

// Request DTOs. Field names in validation messages come from the json tags.

type SignUpRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"required,oneof=student teacher"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"omitempty,min=1,max=100"`
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student teacher admin"`
}

type EnrollRequest struct {
	TeacherID uint `json:"teacher_id" validate:"required"`
}

type OptionRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

type QuestionRequest struct {
	Text         string          `json:"text" validate:"required,max=1000"`
	Marks        int             `json:"marks" validate:"required,min=1"`
	Options      []OptionRequest `json:"options" validate:"required,len=4,dive"`
	CorrectIndex int             `json:"correct_index" validate:"gte=0,lte=3"`
}

type QuizCreateRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Subject     string            `json:"subject" validate:"required,max=100"`
	Description string            `json:"description" validate:"max=2000"`
	Duration    int               `json:"duration" validate:"required,min=1,max=600"`
	Questions   []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

type JoinQuizRequest struct {
	Code string `json:"code" validate:"required,len=6,alphanum"`
}

// SubmitQuizRequest maps question id to the selected option id. An empty
// map is a valid submission and grades to zero.
type SubmitQuizRequest struct {
	Answers map[uint]uint `json:"answers"`
}
