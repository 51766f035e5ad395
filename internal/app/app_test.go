package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathgrade/internal/problemset"
	"github.com/abhisek/mathgrade/internal/store"
	"github.com/abhisek/mathgrade/internal/submission"
)

type stubService struct{}

func (stubService) Submit(context.Context, submission.Request) (submission.Result, error) {
	return submission.Result{}, nil
}

func (stubService) History(context.Context, store.QueryOpts) ([]store.Submission, error) {
	return nil, nil
}

func testModel() AppModel {
	set := &problemset.Set{
		Name:     "Warmup",
		Problems: []problemset.Problem{{ID: "half", Answers: []string{"0.5"}}},
	}
	return newAppModel(Options{Set: set, Service: stubService{}, Logger: zerolog.Nop()})
}

func TestAppModel_ViewBeforeResize(t *testing.T) {
	m := testModel()
	assert.Empty(t, m.render())
}

func TestAppModel_HeaderShowsStatus(t *testing.T) {
	m := testModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(AppModel)

	content := m.render()
	assert.Contains(t, content, "Problems")
	assert.Contains(t, content, "0/1 solved")
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestRun_RequiresSet(t *testing.T) {
	assert.Error(t, Run(Options{}))
}
