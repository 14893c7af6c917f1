package timetrack

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/clocko-app/clocko/app/models"
)

type fakeProjectRepo struct {
	projects map[string]*models.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[string]*models.Project{}}
}

func (r *fakeProjectRepo) Create(project *models.Project) error {
	r.projects[project.UUID] = project
	return nil
}

func (r *fakeProjectRepo) GetByUUID(userID uint, uuid string) (*models.Project, error) {
	project, ok := r.projects[uuid]
	if !ok || project.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (r *fakeProjectRepo) ListByUser(userID uint) ([]models.Project, error) {
	var out []models.Project
	for _, project := range r.projects {
		if project.UserID == userID {
			out = append(out, *project)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(userID uint, uuid string, name string, hourlyRate float64) error {
	project, ok := r.projects[uuid]
	if !ok || project.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	project.Name = name
	project.HourlyRate = hourlyRate
	return nil
}

func (r *fakeProjectRepo) Delete(userID uint, uuid string) error {
	project, ok := r.projects[uuid]
	if !ok || project.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.projects, uuid)
	return nil
}

type fakeEntryRepo struct {
	entries   map[uint]*models.TimeEntry
	nextID    uint
	createErr error
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: map[uint]*models.TimeEntry{}}
}

func (r *fakeEntryRepo) Create(entry *models.TimeEntry) error {
	if r.createErr != nil {
		return r.createErr
	}
	if entry.EndTime == nil {
		for _, existing := range r.entries {
			if existing.UserID == entry.UserID && existing.EndTime == nil {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	r.nextID++
	entry.ID = r.nextID
	if entry.UUID == "" {
		entry.UUID = "entry-" + time.Now().Format("150405.000000000")
	}
	stored := *entry
	r.entries[entry.ID] = &stored
	return nil
}

func (r *fakeEntryRepo) FindRunning(userID uint) (*models.TimeEntry, error) {
	for _, entry := range r.entries {
		if entry.UserID == userID && entry.EndTime == nil {
			out := *entry
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEntryRepo) SetEndTime(userID uint, id uint, end time.Time) error {
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID || entry.EndTime != nil {
		return gorm.ErrRecordNotFound
	}
	entry.EndTime = &end
	return nil
}

func (r *fakeEntryRepo) Delete(userID uint, uuid string) error {
	for id, entry := range r.entries {
		if entry.UUID == uuid && entry.UserID == userID {
			delete(r.entries, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeEntryRepo) List(userID uint, from, to *time.Time) ([]models.TimeEntry, error) {
	var out []models.TimeEntry
	for _, entry := range r.entries {
		if entry.UserID != userID {
			continue
		}
		if from != nil && entry.StartTime.Before(*from) {
			continue
		}
		if to != nil && entry.StartTime.After(*to) {
			continue
		}
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func newTestService(entries *fakeEntryRepo, projects *fakeProjectRepo) *Service {
	return NewService(entries, projects)
}

func seedProject(projects *fakeProjectRepo, userID uint, uuid string, rate float64) *models.Project {
	project := &models.Project{ID: uint(len(projects.projects) + 1), UUID: uuid, UserID: userID, Name: "Project " + uuid, HourlyRate: rate}
	projects.projects[uuid] = project
	return project
}

func TestStartOpensEntry(t *testing.T) {
	entries := newFakeEntryRepo()
	projects := newFakeProjectRepo()
	seedProject(projects, 1, "p-1", 50)
	svc := newTestService(entries, projects)

	entry, err := svc.Start(1, "p-1")
	require.NoError(t, err)
	assert.True(t, entry.IsRunning())
	assert.Equal(t, uint(1), entry.UserID)
	assert.False(t, entry.StartTime.IsZero())
}

func TestStartRejectsSecondTimer(t *testing.T) {
	entries := newFakeEntryRepo()
	projects := newFakeProjectRepo()
	seedProject(projects, 1, "p-1", 50)
	seedProject(projects, 1, "p-2", 75)
	svc := newTestService(entries, projects)

	_, err := svc.Start(1, "p-1")
	require.NoError(t, err)

	_, err = svc.Start(1, "p-2")
	assert.ErrorIs(t, err, ErrTimerAlreadyRunning)
}

func TestStartMapsDuplicateKeyFromRace(t *testing.T) {
	entries := newFakeEntryRepo()
	projects := newFakeProjectRepo()
	seedProject(projects, 1, "p-1", 50)
	svc := newTestService(entries, projects)

	// The read check passes but the insert loses the race.
	entries.createErr = gorm.ErrDuplicatedKey

	_, err := svc.Start(1, "p-1")
	assert.ErrorIs(t, err, ErrTimerAlreadyRunning)
}

func TestStartUnknownProject(t *testing.T) {
	svc := newTestService(newFakeEntryRepo(), newFakeProjectRepo())

	_, err := svc.Start(1, "nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStartRequiresProject(t *testing.T) {
	svc := newTestService(newFakeEntryRepo(), newFakeProjectRepo())

	_, err := svc.Start(1, "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestStopClosesEntry(t *testing.T) {
	entries := newFakeEntryRepo()
	projects := newFakeProjectRepo()
	seedProject(projects, 1, "p-1", 50)
	svc := newTestService(entries, projects)

	started := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return started }
	_, err := svc.Start(1, "p-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return started.Add(time.Hour) }
	entry, err := svc.Stop(1)
	require.NoError(t, err)
	require.NotNil(t, entry.EndTime)
	assert.Equal(t, int64(3600), entry.DurationSeconds())

	_, err = entries.FindRunning(1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStopWithoutRunningTimer(t *testing.T) {
	svc := newTestService(newFakeEntryRepo(), newFakeProjectRepo())

	_, err := svc.Stop(1)
	assert.ErrorIs(t, err, ErrNoActiveTimer)
}

func TestTimersAreIndependentPerUser(t *testing.T) {
	entries := newFakeEntryRepo()
	projects := newFakeProjectRepo()
	seedProject(projects, 1, "p-1", 50)
	seedProject(projects, 2, "p-2", 60)
	svc := newTestService(entries, projects)

	_, err := svc.Start(1, "p-1")
	require.NoError(t, err)
	_, err = svc.Start(2, "p-2")
	require.NoError(t, err)

	_, err = svc.Stop(1)
	require.NoError(t, err)

	active, err := svc.Active(2)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, uint(2), active.UserID)
}

func TestStartCannotUseForeignProject(t *testing.T) {
	entries := newFakeEntryRepo()
	projects := newFakeProjectRepo()
	seedProject(projects, 1, "p-1", 50)
	svc := newTestService(entries, projects)

	_, err := svc.Start(2, "p-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateManual(t *testing.T) {
	entries := newFakeEntryRepo()
	projects := newFakeProjectRepo()
	seedProject(projects, 1, "p-1", 50)
	svc := newTestService(entries, projects)

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	entry, err := svc.CreateManual(1, "p-1", start, end)
	require.NoError(t, err)
	assert.False(t, entry.IsRunning())
	assert.Equal(t, int64(5400), entry.DurationSeconds())
}

func TestCreateManualDoesNotTouchRunningTimer(t *testing.T) {
	entries := newFakeEntryRepo()
	projects := newFakeProjectRepo()
	seedProject(projects, 1, "p-1", 50)
	svc := newTestService(entries, projects)

	_, err := svc.Start(1, "p-1")
	require.NoError(t, err)

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	_, err = svc.CreateManual(1, "p-1", start, start.Add(time.Hour))
	require.NoError(t, err)

	active, err := svc.Active(1)
	require.NoError(t, err)
	assert.NotNil(t, active)
}

func TestCreateManualValidation(t *testing.T) {
	projects := newFakeProjectRepo()
	seedProject(projects, 1, "p-1", 50)
	svc := newTestService(newFakeEntryRepo(), projects)

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	_, err := svc.CreateManual(1, "p-1", start, start)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.CreateManual(1, "p-1", start, start.Add(-time.Minute))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.CreateManual(1, "", start, start.Add(time.Hour))
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.CreateManual(1, "p-1", time.Time{}, start)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestActiveWhenIdle(t *testing.T) {
	svc := newTestService(newFakeEntryRepo(), newFakeProjectRepo())

	entry, err := svc.Active(1)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestEntriesFilterByRange(t *testing.T) {
	entries := newFakeEntryRepo()
	projects := newFakeProjectRepo()
	seedProject(projects, 1, "p-1", 50)
	svc := newTestService(entries, projects)

	day := func(d int) time.Time { return time.Date(2024, 6, d, 9, 0, 0, 0, time.UTC) }
	for d := 1; d <= 3; d++ {
		start := day(d)
		_, err := svc.CreateManual(1, "p-1", start, start.Add(time.Hour))
		require.NoError(t, err)
	}

	from := day(2)
	to := day(3)
	got, err := svc.Entries(1, &from, &to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].StartTime.After(got[1].StartTime))
}

func TestDeleteOwnEntryOnly(t *testing.T) {
	entries := newFakeEntryRepo()
	projects := newFakeProjectRepo()
	seedProject(projects, 1, "p-1", 50)
	svc := newTestService(entries, projects)

	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	entry, err := svc.CreateManual(1, "p-1", start, start.Add(time.Hour))
	require.NoError(t, err)

	err = svc.Delete(2, entry.UUID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = svc.Delete(1, entry.UUID)
	assert.NoError(t, err)
}

func TestOneHourAtFiftyDollars(t *testing.T) {
	entries := newFakeEntryRepo()
	projects := newFakeProjectRepo()
	project := seedProject(projects, 1, "p-1", 50)
	svc := newTestService(entries, projects)

	started := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return started }
	_, err := svc.Start(1, "p-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return started.Add(time.Hour) }
	_, err = svc.Stop(1)
	require.NoError(t, err)

	got, err := svc.Entries(1, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	got[0].Project = *project

	summary := Summarize(got)
	assert.InDelta(t, 1.0, summary.TotalHours, 1e-9)
	assert.InDelta(t, 50.0, summary.TotalRevenue, 1e-9)
}
