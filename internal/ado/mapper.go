package ado

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sprintcap/internal/capacity"

	"github.com/google/uuid"
)

// NormalizeID returns the canonical lower-case form of identity GUIDs so that
// ids coming from capacities, members and work item fields compare equal.
// Non-GUID ids are returned trimmed and lower-cased.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return strings.ToLower(id)
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// MapWorkingDays converts team settings weekday names into a pattern.
// Unknown names are skipped.
func MapWorkingDays(names []string) capacity.WorkingDayPattern {
	var days []time.Weekday
	for _, n := range names {
		if d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(n))]; ok {
			days = append(days, d)
		}
	}
	return capacity.NewWorkingDayPattern(days...)
}

func mapTeam(dto teamDTO, project, projectURL string) Team {
	if dto.ProjectName != "" {
		project = dto.ProjectName
	}
	return Team{
		ID:          NormalizeID(dto.ID),
		Name:        dto.Name,
		Description: dto.Description,
		Project:     project,
		ProjectURL:  projectURL,
	}
}

func mapIteration(dto iterationDTO) capacity.Iteration {
	it := capacity.Iteration{
		ID:   NormalizeID(dto.ID),
		Name: dto.Name,
		Path: dto.Path,
		URL:  dto.URL,
	}
	if dto.Attributes.StartDate != nil {
		it.Start = *dto.Attributes.StartDate
	}
	if dto.Attributes.FinishDate != nil {
		it.Finish = *dto.Attributes.FinishDate
	}
	return it
}

// mapMembers drops container identities (groups) the way the team view does.
func mapMembers(dtos []teamMemberDTO) []Member {
	members := make([]Member, 0, len(dtos))
	for _, m := range dtos {
		if m.Identity.IsContainer {
			continue
		}
		members = append(members, Member{
			ID:          NormalizeID(m.Identity.ID),
			DisplayName: m.Identity.DisplayName,
			UniqueName:  m.Identity.UniqueName,
			AvatarURL:   m.Identity.ImageURL,
		})
	}
	return members
}

func mapDateRanges(dtos []dateRangeDTO) []capacity.DateRange {
	if len(dtos) == 0 {
		return nil
	}
	ranges := make([]capacity.DateRange, 0, len(dtos))
	for _, d := range dtos {
		ranges = append(ranges, capacity.DateRange{Start: d.Start, End: d.End})
	}
	return ranges
}

func mapCapacities(dto capacitiesDTO) []capacity.MemberCapacityEntry {
	src := dto.TeamMembers
	if len(src) == 0 {
		src = dto.Value
	}

	entries := make([]capacity.MemberCapacityEntry, 0, len(src))
	for _, m := range src {
		activities := make([]capacity.Activity, 0, len(m.Activities))
		for _, a := range m.Activities {
			activities = append(activities, capacity.Activity{Name: a.Name, CapacityPerDay: a.CapacityPerDay})
		}
		entries = append(entries, capacity.MemberCapacityEntry{
			MemberID:   NormalizeID(m.TeamMember.ID),
			Activities: activities,
			DaysOff:    mapDateRanges(m.DaysOff),
		})
	}
	return entries
}

// topLevelWorkItemIDs keeps the links without a relation type: those are the
// items planned into the iteration itself rather than their children.
func topLevelWorkItemIDs(dto iterationWorkItemsDTO) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, l := range dto.WorkItemRelations {
		if l.Rel != nil || l.Target.ID == 0 || seen[l.Target.ID] {
			continue
		}
		seen[l.Target.ID] = true
		ids = append(ids, l.Target.ID)
	}
	return ids
}

func mapWorkItem(dto workItemDTO, assigneeField, effortField string) capacity.WorkItemRecord {
	rec := capacity.WorkItemRecord{ID: dto.ID}
	if raw, ok := dto.Fields[assigneeField]; ok {
		rec.AssigneeID = parseAssignee(raw)
	}
	if raw, ok := dto.Fields[effortField]; ok {
		rec.Effort = parseEffort(raw)
	}
	return rec
}

// parseAssignee accepts an identity reference object or a plain string.
func parseAssignee(raw json.RawMessage) string {
	var ref struct {
		ID         string `json:"id"`
		UniqueName string `json:"uniqueName"`
	}
	if err := json.Unmarshal(raw, &ref); err == nil {
		if ref.ID != "" {
			return NormalizeID(ref.ID)
		}
		return NormalizeID(ref.UniqueName)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return NormalizeID(s)
	}
	return ""
}

// parseEffort returns nil for null, empty or non-numeric values.
func parseEffort(raw json.RawMessage) *float64 {
	var f *float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return capacity.Float(v)
		}
	}
	return nil
}

// TaskboardURL builds the web link of an iteration's taskboard.
func TaskboardURL(team Team, it capacity.Iteration) string {
	if team.ProjectURL == "" {
		return ""
	}
	segments := []string{url.PathEscape(team.Name)}
	for _, p := range strings.Split(strings.ReplaceAll(it.Path, "\\", "/"), "/") {
		if p != "" {
			segments = append(segments, url.PathEscape(p))
		}
	}
	return fmt.Sprintf("%s/_sprints/taskboard/%s", strings.TrimRight(team.ProjectURL, "/"), strings.Join(segments, "/"))
}
