package git

import (
	"regexp"
	"strings"
)

// branchLine matches one row of `git branch --list -vv`:
//
//	* main      1a2b3c4 [origin/main: ahead 1] subject
//	  stale     6442450 [origin/stale: gone] subject
//	+ worktree  dbcf785 subject
var branchLine = regexp.MustCompile(`^([*+])?\s*(\S+)\s+([0-9a-fA-F]+)\s*(?:\[([^\]:]+)(:[^\]]*)?\])?`)

// stashSubject matches the reflog subject git writes for stash entries.
var stashSubject = regexp.MustCompile(`^(?:WIP on|On) ([^:]+):`)

const stashFieldSep = "\x00"

// stashListFormat emits selector, commit and subject separated by NUL.
const stashListFormat = "--format=%gd%x00%H%x00%gs"

func parseBranches(out string) []Branch {
	var branches []Branch
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := branchLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[2]
		if strings.HasPrefix(name, "(") {
			// detached HEAD or rebase in progress
			continue
		}
		b := Branch{Name: name, IsHead: m[1] == "*"}
		if m[4] != "" {
			b.Upstream = &RemoteBranch{
				Name: strings.TrimSpace(m[4]),
				Gone: strings.Contains(m[5], "gone"),
			}
		}
		branches = append(branches, b)
	}
	return branches
}

func parseStashes(out string) []Stash {
	var stashes []Stash
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, stashFieldSep, 3)
		s := Stash{Index: len(stashes)}
		switch len(parts) {
		case 3:
			s.StashID, s.Hash, s.Message = parts[0], parts[1], parts[2]
		default:
			// plain `git stash list` output: "stash@{0}: On main: message"
			id, msg, _ := strings.Cut(line, ": ")
			s.StashID, s.Message = id, msg
		}
		if m := stashSubject.FindStringSubmatch(s.Message); m != nil {
			s.BranchName = m[1]
		}
		stashes = append(stashes, s)
	}
	return stashes
}
