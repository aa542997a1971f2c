package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Omondi01/sciencefair-system/models"
	"github.com/Omondi01/sciencefair-system/repositories"
)

// In-memory repository fakes backing the service tests. They implement
// the same contracts as the postgres repositories, including the
// sentinel errors the services branch on.

type fakeUserRepo struct {
	users  map[int]models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]models.User), nextID: 1}
}

func (r *fakeUserRepo) put(u models.User) models.User {
	if u.ID == 0 {
		u.ID = r.nextID
	}
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	*user = r.put(*user)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) UpdateRoles(ctx context.Context, id int, roles []models.UserRole, currentRole models.UserRole, coordinatedCategory *string) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Roles = roles
	u.CurrentRole = currentRole
	u.CoordinatedCategory = coordinatedCategory
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context, role *models.UserRole) (int, error) {
	if role == nil {
		return len(r.users), nil
	}
	count := 0
	for _, u := range r.users {
		if u.HasRole(*role) {
			count++
		}
	}
	return count, nil
}

type fakeProjectRepo struct {
	projects map[int]models.Project
	nextID   int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[int]models.Project), nextID: 1}
}

func (r *fakeProjectRepo) put(p models.Project) models.Project {
	if p.ID == 0 {
		p.ID = r.nextID
	}
	if p.ID >= r.nextID {
		r.nextID = p.ID + 1
	}
	r.projects[p.ID] = p
	return p
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	for _, p := range r.projects {
		if p.Title == project.Title && p.EditionID == project.EditionID {
			return repositories.ErrProjectTitleConflict
		}
	}
	*project = r.put(*project)
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id int) (*models.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, repositories.ErrProjectNotFound
	}
	return &p, nil
}

func (r *fakeProjectRepo) ListByEdition(ctx context.Context, editionID int) ([]models.Project, error) {
	out := make([]models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if p.EditionID == editionID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *models.Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return repositories.ErrProjectNotFound
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) UpdatePromotion(ctx context.Context, id int, level models.CompetitionLevel, eliminated bool) error {
	p, ok := r.projects[id]
	if !ok {
		return repositories.ErrProjectNotFound
	}
	p.CurrentLevel = level
	p.IsEliminated = eliminated
	r.projects[id] = p
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.projects[id]; !ok {
		return repositories.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) Count(ctx context.Context, editionID int, eliminated *bool) (int, error) {
	count := 0
	for _, p := range r.projects {
		if p.EditionID != editionID {
			continue
		}
		if eliminated != nil && p.IsEliminated != *eliminated {
			continue
		}
		count++
	}
	return count, nil
}

type fakeAssignmentRepo struct {
	assignments map[int]models.JudgeAssignment
	nextID      int
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[int]models.JudgeAssignment), nextID: 1}
}

func (r *fakeAssignmentRepo) put(a models.JudgeAssignment) models.JudgeAssignment {
	if a.ID == 0 {
		a.ID = r.nextID
	}
	if a.ID >= r.nextID {
		r.nextID = a.ID + 1
	}
	r.assignments[a.ID] = a
	return a
}

func (r *fakeAssignmentRepo) Upsert(ctx context.Context, assignment *models.JudgeAssignment) error {
	for _, a := range r.assignments {
		if a.ProjectID == assignment.ProjectID && a.JudgeID == assignment.JudgeID &&
			a.Section == assignment.Section && a.Level == assignment.Level &&
			a.EditionID == assignment.EditionID {
			*assignment = a
			return nil
		}
	}
	if assignment.Status == "" {
		assignment.Status = models.StatusNotStarted
	}
	*assignment = r.put(*assignment)
	return nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id int) (*models.JudgeAssignment, error) {
	a, ok := r.assignments[id]
	if !ok {
		return nil, repositories.ErrAssignmentNotFound
	}
	return &a, nil
}

func (r *fakeAssignmentRepo) ListByEdition(ctx context.Context, editionID int) ([]models.JudgeAssignment, error) {
	out := make([]models.JudgeAssignment, 0, len(r.assignments))
	for _, a := range r.assignments {
		if a.EditionID == editionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAssignmentRepo) ListByJudge(ctx context.Context, judgeID, editionID int) ([]models.JudgeAssignment, error) {
	out := make([]models.JudgeAssignment, 0)
	for _, a := range r.assignments {
		if a.JudgeID == judgeID && a.EditionID == editionID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAssignmentRepo) UpdateScore(ctx context.Context, assignment *models.JudgeAssignment) error {
	existing, ok := r.assignments[assignment.ID]
	if !ok || existing.IsArchived {
		return repositories.ErrAssignmentNotFound
	}
	r.assignments[assignment.ID] = *assignment
	return nil
}

func (r *fakeAssignmentRepo) SetArchivedByProjects(ctx context.Context, projectIDs []int, level models.CompetitionLevel, editionID int, archive bool) error {
	members := make(map[int]struct{}, len(projectIDs))
	for _, id := range projectIDs {
		members[id] = struct{}{}
	}
	for id, a := range r.assignments {
		if _, ok := members[a.ProjectID]; ok && a.Level == level && a.EditionID == editionID {
			a.IsArchived = archive
			r.assignments[id] = a
		}
	}
	return nil
}

func (r *fakeAssignmentRepo) SetArchivedByLevel(ctx context.Context, level models.CompetitionLevel, editionID int, archive bool) error {
	for id, a := range r.assignments {
		if a.Level == level && a.EditionID == editionID {
			a.IsArchived = archive
			r.assignments[id] = a
		}
	}
	return nil
}

func (r *fakeAssignmentRepo) CountByLevelAndStatuses(ctx context.Context, level models.CompetitionLevel, editionID int, statuses []models.AssignmentStatus) (int, error) {
	count := 0
	for _, a := range r.assignments {
		if a.Level != level || a.EditionID != editionID {
			continue
		}
		for _, status := range statuses {
			if a.Status == status {
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *fakeAssignmentRepo) Count(ctx context.Context, editionID int, status *models.AssignmentStatus) (int, error) {
	count := 0
	for _, a := range r.assignments {
		if a.EditionID != editionID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		count++
	}
	return count, nil
}

type fakeEditionRepo struct {
	editions map[int]models.Edition
	nextID   int
}

func newFakeEditionRepo() *fakeEditionRepo {
	return &fakeEditionRepo{editions: make(map[int]models.Edition), nextID: 1}
}

func (r *fakeEditionRepo) Create(ctx context.Context, edition *models.Edition) error {
	for _, e := range r.editions {
		if e.Year == edition.Year {
			return repositories.ErrEditionYearConflict
		}
	}
	if edition.ID == 0 {
		edition.ID = r.nextID
	}
	if edition.ID >= r.nextID {
		r.nextID = edition.ID + 1
	}
	r.editions[edition.ID] = *edition
	return nil
}

func (r *fakeEditionRepo) GetByID(ctx context.Context, id int) (*models.Edition, error) {
	e, ok := r.editions[id]
	if !ok {
		return nil, repositories.ErrEditionNotFound
	}
	return &e, nil
}

func (r *fakeEditionRepo) GetActive(ctx context.Context) (*models.Edition, error) {
	for _, e := range r.editions {
		if e.IsActive {
			active := e
			return &active, nil
		}
	}
	return nil, repositories.ErrNoActiveEdition
}

func (r *fakeEditionRepo) List(ctx context.Context) ([]models.Edition, error) {
	out := make([]models.Edition, 0, len(r.editions))
	for _, e := range r.editions {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out, nil
}

type fakeSettingsRepo struct {
	snapshots map[string]models.RoleSnapshot
	completed map[int]bool
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{
		snapshots: make(map[string]models.RoleSnapshot),
		completed: make(map[int]bool),
	}
}

func snapshotKey(editionID int, level models.CompetitionLevel) string {
	return fmt.Sprintf("%d_%s", editionID, level)
}

func (r *fakeSettingsRepo) SaveRoleSnapshot(ctx context.Context, snapshot *models.RoleSnapshot) error {
	r.snapshots[snapshotKey(snapshot.EditionID, snapshot.Level)] = *snapshot
	return nil
}

func (r *fakeSettingsRepo) GetRoleSnapshot(ctx context.Context, editionID int, level models.CompetitionLevel) (*models.RoleSnapshot, error) {
	snapshot, ok := r.snapshots[snapshotKey(editionID, level)]
	if !ok {
		return nil, repositories.ErrSettingNotFound
	}
	return &snapshot, nil
}

func (r *fakeSettingsRepo) DeleteRoleSnapshot(ctx context.Context, editionID int, level models.CompetitionLevel) error {
	delete(r.snapshots, snapshotKey(editionID, level))
	return nil
}

func (r *fakeSettingsRepo) SetEditionCompleted(ctx context.Context, editionID int, completed bool) error {
	if !completed {
		delete(r.completed, editionID)
		return nil
	}
	r.completed[editionID] = true
	return nil
}

func (r *fakeSettingsRepo) EditionCompleted(ctx context.Context, editionID int) (bool, error) {
	return r.completed[editionID], nil
}

type fakeAuditRepo struct {
	entries []models.AuditEntry
}

func (r *fakeAuditRepo) Append(ctx context.Context, entry *models.AuditEntry) error {
	entry.ID = len(r.entries) + 1
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByEdition(ctx context.Context, editionID int, limit int) ([]models.AuditEntry, error) {
	out := make([]models.AuditEntry, 0)
	for _, e := range r.entries {
		if e.EditionID == editionID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeBroadcaster struct {
	messages []struct {
		Level   models.CompetitionLevel
		Message interface{}
	}
}

func (b *fakeBroadcaster) BroadcastLevel(level models.CompetitionLevel, message interface{}) {
	b.messages = append(b.messages, struct {
		Level   models.CompetitionLevel
		Message interface{}
	}{level, message})
}
