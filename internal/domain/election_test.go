package domain

import (
	"testing"
	"time"
)

func TestElection_DeriveStatus(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		official bool
		expected ElectionStatus
	}{
		{
			name:     "Before voting window",
			now:      start.Add(-time.Hour),
			expected: ElectionUpcoming,
		},
		{
			name:     "Exactly at window start",
			now:      start,
			expected: ElectionOngoing,
		},
		{
			name:     "Inside voting window",
			now:      start.Add(48 * time.Hour),
			expected: ElectionOngoing,
		},
		{
			name:     "Exactly at window end",
			now:      end,
			expected: ElectionOngoing,
		},
		{
			name:     "After voting window",
			now:      end.Add(time.Second),
			expected: ElectionCompleted,
		},
		{
			name:     "Official election stays completed mid-window",
			now:      start.Add(time.Hour),
			official: true,
			expected: ElectionCompleted,
		},
		{
			name:     "Official election stays completed before window",
			now:      start.Add(-time.Hour),
			official: true,
			expected: ElectionCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			election := &Election{
				StartDate:  start,
				EndDate:    end,
				IsOfficial: tt.official,
			}
			if got := election.DeriveStatus(tt.now); got != tt.expected {
				t.Errorf("DeriveStatus(%v) = %s, want %s", tt.now, got, tt.expected)
			}
		})
	}
}

func TestVoterRestriction_Allows(t *testing.T) {
	tests := []struct {
		name        string
		restriction VoterRestriction
		userType    UserType
		expected    bool
	}{
		{"ALL allows students", RestrictionAll, UserTypeStudent, true},
		{"ALL allows faculty", RestrictionAll, UserTypeFaculty, true},
		{"ALL allows non-teaching", RestrictionAll, UserTypeNonTeaching, true},
		{"ALL rejects unknown classification", RestrictionAll, UserType("STAFF"), false},
		{"STUDENTS allows students", RestrictionStudents, UserTypeStudent, true},
		{"STUDENTS rejects faculty", RestrictionStudents, UserTypeFaculty, false},
		{"STUDENTS rejects non-teaching", RestrictionStudents, UserTypeNonTeaching, false},
		{"FACULTY allows faculty", RestrictionFaculty, UserTypeFaculty, true},
		{"FACULTY rejects students", RestrictionFaculty, UserTypeStudent, false},
		{"NON_TEACHING allows non-teaching", RestrictionNonTeaching, UserTypeNonTeaching, true},
		{"NON_TEACHING rejects faculty", RestrictionNonTeaching, UserTypeFaculty, false},
		{"STUDENTS_FACULTY allows students", RestrictionStudentsFaculty, UserTypeStudent, true},
		{"STUDENTS_FACULTY allows faculty", RestrictionStudentsFaculty, UserTypeFaculty, true},
		{"STUDENTS_FACULTY rejects non-teaching", RestrictionStudentsFaculty, UserTypeNonTeaching, false},
		{"Unknown restriction rejects everyone", VoterRestriction("ALUMNI"), UserTypeStudent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.restriction.Allows(tt.userType); got != tt.expected {
				t.Errorf("%s.Allows(%s) = %v, want %v", tt.restriction, tt.userType, got, tt.expected)
			}
		})
	}
}

func TestUserType_Valid(t *testing.T) {
	valid := []UserType{UserTypeStudent, UserTypeFaculty, UserTypeNonTeaching}
	for _, userType := range valid {
		if !userType.Valid() {
			t.Errorf("%s.Valid() = false, want true", userType)
		}
	}

	invalid := []UserType{"", "STAFF", "student", "ADMIN"}
	for _, userType := range invalid {
		if userType.Valid() {
			t.Errorf("%q.Valid() = true, want false", userType)
		}
	}
}

func TestCandidate_Votable(t *testing.T) {
	tests := []struct {
		name     string
		status   CandidateStatus
		active   bool
		expected bool
	}{
		{"Approved and active", CandidateApproved, true, true},
		{"Approved but inactive", CandidateApproved, false, false},
		{"Pending application", CandidatePending, true, false},
		{"Rejected application", CandidateRejected, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := &Candidate{Status: tt.status, IsActive: tt.active}
			if got := candidate.Votable(); got != tt.expected {
				t.Errorf("Votable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPrincipal_IsAdmin(t *testing.T) {
	if (&Principal{Role: RoleVoter}).IsAdmin() {
		t.Error("voter principal should not be admin")
	}
	if !(&Principal{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin principal should be admin")
	}

	var nilPrincipal *Principal
	if nilPrincipal.IsAdmin() {
		t.Error("nil principal should not be admin")
	}
}
