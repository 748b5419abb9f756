// Package models - Test máy trạng thái của yêu cầu sinh lại.
package models

import "testing"

func TestIsTerminalRegenStatus(t *testing.T) {
	terminal := []string{RegenStatusRejected, RegenStatusCompleted}
	for _, st := range terminal {
		if !IsTerminalRegenStatus(st) {
			t.Errorf("%s phải là terminal", st)
		}
	}

	nonTerminal := []string{RegenStatusPending, RegenStatusApproved, RegenStatusGenerating, RegenStatusSelecting, RegenStatusAwaitingFinal}
	for _, st := range nonTerminal {
		if IsTerminalRegenStatus(st) {
			t.Errorf("%s không được là terminal", st)
		}
	}
}

func TestCanRegenerate(t *testing.T) {
	cases := []struct {
		name     string
		status   string
		used     int
		max      int
		expected bool
	}{
		{"approved còn lượt", RegenStatusApproved, 0, 3, true},
		{"selecting còn lượt", RegenStatusSelecting, 2, 3, true},
		{"selecting hết lượt", RegenStatusSelecting, 3, 3, false},
		{"pending chưa duyệt", RegenStatusPending, 0, 3, false},
		{"generating đang chạy", RegenStatusGenerating, 0, 3, false},
		{"awaiting_final hết lượt sinh", RegenStatusAwaitingFinal, 3, 3, false},
		{"rejected", RegenStatusRejected, 0, 3, false},
		{"completed", RegenStatusCompleted, 1, 3, false},
	}
	for _, tc := range cases {
		r := RegenerationRequest{Status: tc.status, AttemptsUsed: tc.used, MaxAttempts: tc.max}
		if got := r.CanRegenerate(); got != tc.expected {
			t.Errorf("%s: CanRegenerate = %v, muốn %v", tc.name, got, tc.expected)
		}
	}
}
