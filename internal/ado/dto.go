package ado

import (
	"encoding/json"
	"time"
)

type listResponse[T any] struct {
	Count int `json:"count"`
	Value []T `json:"value"`
}

type teamDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ProjectName string `json:"projectName"`
}

type teamSettingsDTO struct {
	WorkingDays []string `json:"workingDays"`
}

type iterationDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Path       string `json:"path"`
	URL        string `json:"url"`
	Attributes struct {
		StartDate  *time.Time `json:"startDate"`
		FinishDate *time.Time `json:"finishDate"`
		TimeFrame  string     `json:"timeFrame"`
	} `json:"attributes"`
}

type identityDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName"`
	ImageURL    string `json:"imageUrl"`
	IsContainer bool   `json:"isContainer"`
}

type teamMemberDTO struct {
	Identity    identityDTO `json:"identity"`
	IsTeamAdmin bool        `json:"isTeamAdmin"`
}

type dateRangeDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type activityDTO struct {
	Name           string  `json:"name"`
	CapacityPerDay float64 `json:"capacityPerDay"`
}

type memberCapacityDTO struct {
	TeamMember identityDTO    `json:"teamMember"`
	Activities []activityDTO  `json:"activities"`
	DaysOff    []dateRangeDTO `json:"daysOff"`
}

// capacitiesDTO covers both the 7.x shape (teamMembers) and the older list shape (value).
type capacitiesDTO struct {
	TeamMembers []memberCapacityDTO `json:"teamMembers"`
	Value       []memberCapacityDTO `json:"value"`
}

type teamDaysOffDTO struct {
	DaysOff []dateRangeDTO `json:"daysOff"`
}

type workItemLinkDTO struct {
	Rel    *string `json:"rel"`
	Source *struct {
		ID int `json:"id"`
	} `json:"source"`
	Target struct {
		ID  int    `json:"id"`
		URL string `json:"url"`
	} `json:"target"`
}

type iterationWorkItemsDTO struct {
	WorkItemRelations []workItemLinkDTO `json:"workItemRelations"`
}

type workItemsBatchRequest struct {
	IDs         []int    `json:"ids"`
	Fields      []string `json:"fields"`
	ErrorPolicy string   `json:"errorPolicy"`
}

type workItemDTO struct {
	ID     int                        `json:"id"`
	Fields map[string]json.RawMessage `json:"fields"`
}
