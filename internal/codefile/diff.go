package codefile

import (
	"strings"
)

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func findLCS(a, b []string) [][]int {
	m, n := len(a), len(b)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] > dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return dp
}

// DiffLines returns old and new as a line diff: unchanged lines are prefixed
// with a space, removed lines with '-' and added lines with '+'.
func DiffLines(oldText, newText string) []string {
	a, b := splitLines(oldText), splitLines(newText)
	dp := findLCS(a, b)
	i, j := len(a), len(b)

	var diff []string
	for i > 0 || j > 0 {
		if i > 0 && j > 0 && a[i-1] == b[j-1] {
			diff = append(diff, " "+a[i-1])
			i--
			j--
		} else if j > 0 && (i == 0 || dp[i][j-1] >= dp[i-1][j]) {
			diff = append(diff, "+"+b[j-1])
			j--
		} else {
			diff = append(diff, "-"+a[i-1])
			i--
		}
	}

	// built backwards; removals end up before the additions that replace them

	for l, r := 0, len(diff)-1; l < r; l, r = l+1, r-1 {
		diff[l], diff[r] = diff[r], diff[l]
	}
	return diff
}

func Diff(oldText, newText string) string {
	lines := DiffLines(oldText, newText)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Changed reports whether a diff line is an addition or a removal.
func Changed(line string) bool {
	return strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-")
}
