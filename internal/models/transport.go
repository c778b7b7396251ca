package models

type RegisterReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type LoginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResp struct {
	Token string   `json:"token"`
	User  UserResp `json:"user"`
}

type UserResp struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type ProfileResp struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Preferences []string `json:"preferences"`
}

type ActivityReq struct {
	Nombre    string  `json:"nombre" validate:"required"`
	Place     *string `json:"place"`
	Time      *string `json:"time" validate:"omitempty,schedule"`
	Category  *string `json:"category"`
	Categoria *string `json:"categoria"`
}

type ActivityResp struct {
	Name     string  `json:"name"`
	Place    *string `json:"place,omitempty"`
	Time     *string `json:"time,omitempty"`
	Category *string `json:"category,omitempty"`
}

type GroupResp struct {
	Category   string         `json:"category"`
	Activities []ActivityResp `json:"activities"`
}

type GroupsResp struct {
	Groups []GroupResp `json:"groups"`
}

type PreferencesReq struct {
	Activities []string `json:"activities" validate:"required,min=1,dive,required"`
}

type StatusResp struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type ErrorResp struct {
	Error             string   `json:"error"`
	InvalidActivities []string `json:"invalid_activities,omitempty"`
}

func NewActivityResp(a Activity) ActivityResp {
	cat := a.Category
	if cat == nil {
		cat = a.LinkedCategory
	}
	return ActivityResp{
		Name:     a.Name,
		Place:    a.Place,
		Time:     a.Time,
		Category: cat,
	}
}

func NewGroupsResp(groups []ActivityGroup) GroupsResp {
	resp := GroupsResp{Groups: make([]GroupResp, len(groups))}
	for i := range groups {
		acts := make([]ActivityResp, len(groups[i].Activities))
		for j := range groups[i].Activities {
			acts[j] = NewActivityResp(groups[i].Activities[j])
		}
		resp.Groups[i] = GroupResp{
			Category:   groups[i].Category,
			Activities: acts,
		}
	}
	return resp
}
