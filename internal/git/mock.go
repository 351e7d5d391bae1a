package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var mockBranchName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

// Mock is an in-memory Gateway used by tests and by --backend=mock.
// Stash operations fail for stashes whose message contains "fail" and
// StashWithMessage fails for the message "should fail".
type Mock struct {
	mu       sync.Mutex
	branches []Branch
	stashes  []Stash
	calls    []string
	failures map[string]error
	block    chan struct{}
	nextHash int
}

// NewMock returns a repository with branches main (HEAD) and test and a
// single stash.
func NewMock() *Mock {
	return &Mock{
		branches: []Branch{
			{Name: "main", IsHead: true},
			{Name: "test"},
		},
		stashes: []Stash{
			{Index: 0, Message: "message1", StashID: "stash@{0}", BranchName: "main", Hash: "5f1c0a1"},
		},
		failures: map[string]error{},
		nextHash: 0x100,
	}
}

// SetBranches replaces the branch list.
func (m *Mock) SetBranches(branches ...Branch) {
	m.mu.Lock()
	m.branches = cloneBranches(branches)
	m.mu.Unlock()
}

// SetStashes replaces the stash list, renumbering ids by position.
func (m *Mock) SetStashes(messages ...string) {
	m.mu.Lock()
	m.stashes = m.stashes[:0]
	for i, msg := range messages {
		m.stashes = append(m.stashes, Stash{
			Index:   i,
			Message: msg,
			StashID: fmt.Sprintf("stash@{%d}", i),
			Hash:    fmt.Sprintf("%07x", i+1),
		})
	}
	m.mu.Unlock()
}

// FailOn makes every call to op with the given target return err. Use an
// empty target to fail every call to op.
func (m *Mock) FailOn(op, target string, err error) {
	m.mu.Lock()
	m.failures[op+":"+target] = err
	m.mu.Unlock()
}

// Block makes listing calls wait until the returned release func runs.
func (m *Mock) Block() (release func()) {
	ch := make(chan struct{})
	m.mu.Lock()
	m.block = ch
	m.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			m.block = nil
			m.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns the recorded operations in call order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *Mock) Root() string {
	return "/mock"
}

func (m *Mock) record(op, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op+":"+target)
	if err, ok := m.failures[op+":"+target]; ok {
		return err
	}
	if err, ok := m.failures[op+":"]; ok {
		return err
	}
	return nil
}

func (m *Mock) wait(ctx context.Context) error {
	m.mu.Lock()
	ch := m.block
	m.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Mock) ListBranches(ctx context.Context) ([]Branch, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if err := m.record("list-branches", ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneBranches(m.branches), nil
}

func (m *Mock) ListStashes(ctx context.Context) ([]Stash, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	if err := m.record("list-stashes", ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneStashes(m.stashes), nil
}

func (m *Mock) Checkout(_ context.Context, name string) error {
	if err := m.record("checkout", name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for i := range m.branches {
		m.branches[i].IsHead = m.branches[i].Name == name
		found = found || m.branches[i].Name == name
	}
	if !found {
		return fmt.Errorf("pathspec '%s' did not match any file(s) known to git", name)
	}
	return nil
}

func (m *Mock) CreateBranch(_ context.Context, branch Branch) error {
	if err := m.record("create", branch.Name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.branches {
		if b.Name == branch.Name {
			return fmt.Errorf("a branch named '%s' already exists", branch.Name)
		}
	}
	for i := range m.branches {
		m.branches[i].IsHead = false
	}
	m.branches = append(m.branches, Branch{Name: branch.Name, IsHead: true})
	sort.Slice(m.branches, func(i, j int) bool { return m.branches[i].Name < m.branches[j].Name })
	return nil
}

func (m *Mock) DeleteBranch(_ context.Context, branch Branch) error {
	if err := m.record("delete", branch.Name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.branches {
		if b.Name != branch.Name {
			continue
		}
		if b.IsHead {
			return fmt.Errorf("cannot delete branch '%s' checked out", b.Name)
		}
		m.branches = append(m.branches[:i], m.branches[i+1:]...)
		return nil
	}
	return fmt.Errorf("branch '%s' not found", branch.Name)
}

func (m *Mock) ValidateBranchName(_ context.Context, name string) (bool, error) {
	if err := m.record("validate", name); err != nil {
		return false, err
	}
	return mockBranchName.MatchString(name) && !strings.Contains(name, ".."), nil
}

func (m *Mock) ApplyStash(_ context.Context, stash Stash) error {
	if err := m.stashOp("apply", stash); err != nil {
		return err
	}
	return nil
}

func (m *Mock) PopStash(_ context.Context, stash Stash) error {
	if err := m.stashOp("pop", stash); err != nil {
		return err
	}
	return m.removeStash(stash)
}

func (m *Mock) DropStash(_ context.Context, stash Stash) error {
	if err := m.stashOp("drop", stash); err != nil {
		return err
	}
	return m.removeStash(stash)
}

func (m *Mock) StashWithMessage(_ context.Context, message string) (bool, error) {
	if err := m.record("stash", message); err != nil {
		return false, err
	}
	switch message {
	case "should fail":
		return false, errors.New("Stash with message failed")
	case "":
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextHash++
	m.stashes = append([]Stash{{Message: "On main: " + message, BranchName: "main", Hash: fmt.Sprintf("%07x", m.nextHash)}}, m.stashes...)
	m.renumber()
	return true, nil
}

func (m *Mock) stashOp(op string, stash Stash) error {
	if err := m.record(op, stash.Ref()); err != nil {
		return err
	}
	if strings.Contains(strings.ToLower(stash.Message), "fail") {
		return fmt.Errorf("%s stash failed", strings.ToUpper(op[:1])+op[1:])
	}
	return nil
}

func (m *Mock) removeStash(stash Stash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.stashes {
		if s.Ref() == stash.Ref() {
			m.stashes = append(m.stashes[:i], m.stashes[i+1:]...)
			m.renumber()
			return nil
		}
	}
	return fmt.Errorf("%s is not a valid reference", stash.Ref())
}

func (m *Mock) renumber() {
	for i := range m.stashes {
		m.stashes[i].Index = i
		m.stashes[i].StashID = fmt.Sprintf("stash@{%d}", i)
	}
}
