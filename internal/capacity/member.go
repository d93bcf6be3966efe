package capacity

// MemberCapacity returns workingDays * sum(capacity per day) for a member in an
// iteration, where working days exclude both the member's and the team's days
// off. It returns nil when the member has no entry or declared no activities.
func MemberCapacity(entry *MemberCapacityEntry, iteration Iteration, teamDaysOff []DateRange, pattern WorkingDayPattern) *float64 {
	return ResolveMember("", entry, iteration, teamDaysOff, pattern).Capacity
}

// ResolveMember computes the full CapacityResult for a member. Without an entry
// the working days only exclude the team's days off and the capacity is absent.
func ResolveMember(memberID string, entry *MemberCapacityEntry, iteration Iteration, teamDaysOff []DateRange, pattern WorkingDayPattern) CapacityResult {
	if entry == nil {
		return CapacityResult{
			MemberID:    memberID,
			WorkingDays: WorkingDays(pattern, iteration.Start, iteration.Finish, teamDaysOff),
		}
	}
	if memberID == "" {
		memberID = entry.MemberID
	}

	exclusions := make([]DateRange, 0, len(entry.DaysOff)+len(teamDaysOff))
	exclusions = append(exclusions, entry.DaysOff...)
	exclusions = append(exclusions, teamDaysOff...)
	days := WorkingDays(pattern, iteration.Start, iteration.Finish, exclusions)

	res := CapacityResult{MemberID: memberID, WorkingDays: days}
	if len(entry.Activities) == 0 {
		return res
	}

	perDay := 0.0
	for _, a := range entry.Activities {
		perDay += a.CapacityPerDay
	}
	res.Capacity = Float(float64(days) * perDay)
	return res
}

// ResolveTeam resolves every member id in order against the declared entries.
func ResolveTeam(memberIDs []string, entries []MemberCapacityEntry, iteration Iteration, teamDaysOff []DateRange, pattern WorkingDayPattern) []CapacityResult {
	byMember := make(map[string]*MemberCapacityEntry, len(entries))
	for i := range entries {
		byMember[entries[i].MemberID] = &entries[i]
	}

	results := make([]CapacityResult, 0, len(memberIDs))
	for _, id := range memberIDs {
		results = append(results, ResolveMember(id, byMember[id], iteration, teamDaysOff, pattern))
	}
	return results
}
