package dto

type CreateProjectInput struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description *string `json:"description"`
}

type UpdateProjectInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
}
