package rollup

import (
	"testing"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/alexanderramin/stageplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectWith(budget *float64, subtasks ...*domain.Subtask) *domain.Project {
	p := testutil.NewTestProject("Rollup", testutil.WithStages("Work"))
	for i, st := range subtasks {
		st.StageID = p.Stages[0].ID
		st.Order = i
	}
	p.Subtasks = subtasks
	p.Budget = budget
	return p
}

func sub(opts ...testutil.SubtaskOption) *domain.Subtask {
	return testutil.NewTestSubtask("", "task", 0, opts...)
}

func budget(v float64) *float64 { return &v }

func TestCalculatedSpent_SkipsMissingCosts(t *testing.T) {
	p := projectWith(nil, sub(testutil.WithCost(100)), sub(), sub(testutil.WithCost(50)))
	assert.Equal(t, 150.0, CalculatedSpent(p))
}

func TestCalculatedSpent_CountsEveryStage(t *testing.T) {
	p := testutil.NewTestProject("Two stages", testutil.WithStages("A", "B"))
	p.Subtasks = []*domain.Subtask{
		testutil.NewTestSubtask(p.Stages[0].ID, "x", 0, testutil.WithCost(10)),
		testutil.NewTestSubtask(p.Stages[1].ID, "y", 0, testutil.WithCost(15)),
	}
	assert.Equal(t, 25.0, CalculatedSpent(p))
}

func TestTaskProgressPercentage(t *testing.T) {
	done := testutil.WithSubtaskStatus(domain.SubtaskDone)

	assert.Equal(t, 25, TaskProgressPercentage(projectWith(nil, sub(done), sub(), sub(), sub())))
	assert.Equal(t, 0, TaskProgressPercentage(projectWith(nil)))
	assert.Equal(t, 67, TaskProgressPercentage(projectWith(nil, sub(done), sub(done), sub())))
	assert.Equal(t, 100, TaskProgressPercentage(projectWith(nil, sub(done))))
}

func TestTaskProgressPercentage_BlockedIsNotDone(t *testing.T) {
	p := projectWith(nil, sub(testutil.WithSubtaskStatus(domain.SubtaskBlocked)), sub(testutil.WithSubtaskStatus(domain.SubtaskInProgress)))
	assert.Equal(t, 0, TaskProgressPercentage(p))
}

func TestRemainingBudget(t *testing.T) {
	assert.Nil(t, RemainingBudget(projectWith(nil, sub(testutil.WithCost(5)))))

	r := RemainingBudget(projectWith(budget(1000), sub(testutil.WithCost(250))))
	require.NotNil(t, r)
	assert.Equal(t, 750.0, *r)

	over := RemainingBudget(projectWith(budget(100), sub(testutil.WithCost(130))))
	require.NotNil(t, over)
	assert.Equal(t, -30.0, *over)
}

func TestBudgetUsagePercentage(t *testing.T) {
	tests := []struct {
		name   string
		budget *float64
		cost   float64
		want   int
	}{
		{"no budget", nil, 50, 0},
		{"zero budget", budget(0), 50, 0},
		{"partial", budget(400), 100, 25},
		{"rounded", budget(300), 100, 33},
		{"capped at 100", budget(100), 250, 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := projectWith(tc.budget, sub(testutil.WithCost(tc.cost)))
			assert.Equal(t, tc.want, BudgetUsagePercentage(p))
		})
	}
}

func TestSummarize(t *testing.T) {
	p := testutil.NewTestProject("Summary",
		testutil.WithStages("Backlog", "Done"),
		testutil.WithBudget(1000),
	)
	backlog, done := p.Stages[0].ID, p.Stages[1].ID
	p.Subtasks = []*domain.Subtask{
		testutil.NewTestSubtask(backlog, "a", 0, testutil.WithCost(100)),
		testutil.NewTestSubtask(backlog, "b", 1, testutil.WithSubtaskStatus(domain.SubtaskBlocked)),
		testutil.NewTestSubtask(done, "c", 0, testutil.WithCost(300), testutil.WithSubtaskStatus(domain.SubtaskDone)),
	}

	s := Summarize(p)

	assert.Equal(t, 400.0, s.Spent)
	require.NotNil(t, s.Remaining)
	assert.Equal(t, 600.0, *s.Remaining)
	assert.Equal(t, 40, s.BudgetUsagePct)
	assert.Equal(t, 33, s.ProgressPct)
	assert.Equal(t, 3, s.TotalSubtasks)
	assert.Equal(t, 1, s.CompletedSubtasks)
	assert.Equal(t, 1, s.ByStatus[domain.SubtaskBlocked])
	assert.Equal(t, 1, s.ByStatus[domain.SubtaskToDo])
	require.Len(t, s.Stages, 2)
	assert.Equal(t, StageSummary{StageID: backlog, Name: "Backlog", Order: 0, Total: 2, Spent: 100}, s.Stages[0])
	assert.Equal(t, StageSummary{StageID: done, Name: "Done", Order: 1, Total: 1, Done: 1, Spent: 300}, s.Stages[1])
}
