package user

import (
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/career/roadmap"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest - nil fields are left unchanged
type UpdateProfileRequest struct {
	Name       *string        `json:"name,omitempty"`
	TargetRole *kernel.RoleID `json:"target_role,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// Profile - public view of a user
type Profile struct {
	ID          kernel.UserID `json:"id"`
	Name        string        `json:"name"`
	Email       kernel.Email  `json:"email"`
	Role        string        `json:"role"`
	TargetRole  kernel.RoleID `json:"target_role,omitempty"`
	LastLoginAt *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// AuthResponse - returned by register and login
type AuthResponse struct {
	User        Profile `json:"user"`
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
}

// Dashboard - a user's overview across analyses and roadmaps
type Dashboard struct {
	User           Profile                    `json:"user"`
	AnalysisStats  *analysis.UserStats        `json:"analysis_stats"`
	RoadmapStats   *roadmap.UserStats         `json:"roadmap_stats"`
	RecentAnalyses []analysis.AnalysisSummary `json:"recent_analyses"`
	RecentRoadmaps []roadmap.RoadmapSummary   `json:"recent_roadmaps"`
}
