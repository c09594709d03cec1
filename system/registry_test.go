package system_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plus3/vane/event"
	"github.com/plus3/vane/scene"
	"github.com/plus3/vane/system"
)

type audioSys struct {
	inits int
}

func (a *audioSys) Name() string { return "audio" }
func (a *audioSys) Init() error  { a.inits++; return nil }

type brokenSys struct{}

func (b *brokenSys) Name() string { return "broken" }
func (b *brokenSys) Init() error  { return errors.New("no device") }

type physicsCfg struct {
	Gravity float64
}

type physicsSys struct {
	cfg *physicsCfg
}

func (p *physicsSys) Name() string             { return "physics" }
func (p *physicsSys) ConfigKind() reflect.Type { return reflect.TypeOf(&physicsCfg{}) }
func (p *physicsSys) InitWithConfig(cfg any) error {
	c, ok := cfg.(*physicsCfg)
	if !ok {
		return fmt.Errorf("unexpected config %T", cfg)
	}
	p.cfg = c
	return nil
}

type plainSys struct{}

func (plainSys) Name() string { return "plain" }

type drawSys struct {
	name string
	prio int
	drew []string
}

func (d *drawSys) Name() string        { return d.name }
func (d *drawSys) RenderPriority() int { return d.prio }
func (d *drawSys) Render(*scene.Scene) error {
	d.drew = append(d.drew, d.name)
	return nil
}

type hudSys struct{ drawSys }

type skySys struct{ drawSys }

type tickSys struct {
	frames int
}

func (t *tickSys) Name() string { return "ticker" }
func (t *tickSys) Update(event.Frame) error {
	t.frames++
	return nil
}

func TestAddValidation(t *testing.T) {
	r := system.NewRegistry(zap.NewNop())

	require.NoError(t, r.Add(&audioSys{}))
	assert.Error(t, r.Add(&audioSys{}), "duplicate concrete type")
	assert.Error(t, r.Add(nil))
	assert.Equal(t, 1, r.Len())
}

func TestInitAllOutcomes(t *testing.T) {
	r := system.NewRegistry(zap.NewNop())

	audio := &audioSys{}
	phys := &physicsSys{}
	orphan := &drawSys{name: "orphan", prio: 0}
	require.NoError(t, r.Add(audio))
	require.NoError(t, r.Add(phys))
	require.NoError(t, r.Add(&brokenSys{}))
	require.NoError(t, r.Add(plainSys{}))
	require.NoError(t, r.Add(orphan))

	r.Provide(&physicsCfg{Gravity: -9.81})

	sum := r.InitAll()

	assert.ElementsMatch(t, []string{"audio", "physics", "plain", "orphan"}, sum.Initialized)
	assert.Empty(t, sum.Skipped)
	assert.Equal(t, []string{"broken"}, sum.Failed)

	assert.Equal(t, 1, audio.inits)
	require.NotNil(t, phys.cfg)
	assert.Equal(t, -9.81, phys.cfg.Gravity)
}

func TestInitAllSkipsUnconfigured(t *testing.T) {
	r := system.NewRegistry(zap.NewNop())
	phys := &physicsSys{}
	require.NoError(t, r.Add(phys))

	sum := r.InitAll()
	assert.Equal(t, []string{"physics"}, sum.Skipped)
	assert.Nil(t, phys.cfg)

	// the config shows up later; a second pass picks the system up
	r.Provide(&physicsCfg{Gravity: -1})
	sum = r.InitAll()
	assert.Equal(t, []string{"physics"}, sum.Initialized)
	require.NotNil(t, phys.cfg)
}

func TestInitAllRunsEachSystemOnce(t *testing.T) {
	r := system.NewRegistry(zap.NewNop())
	audio := &audioSys{}
	require.NoError(t, r.Add(audio))

	r.InitAll()
	sum := r.InitAll()

	assert.Equal(t, 1, audio.inits)
	assert.Empty(t, sum.Initialized)
}

func TestGetByContractType(t *testing.T) {
	r := system.NewRegistry(zap.NewNop())
	audio := &audioSys{}
	require.NoError(t, r.Add(audio))
	require.NoError(t, r.Add(&tickSys{}))

	got, ok := system.Get[*audioSys](r)
	require.True(t, ok)
	assert.Same(t, audio, got)

	up, ok := system.Get[system.Updater](r)
	require.True(t, ok)
	assert.Equal(t, "ticker", up.Name())

	_, ok = system.Get[*brokenSys](r)
	assert.False(t, ok)
}

func TestRenderersSortedByPriority(t *testing.T) {
	r := system.NewRegistry(zap.NewNop())
	require.NoError(t, r.Add(&drawSys{name: "late", prio: 50}))
	require.NoError(t, r.Add(&tickSys{}))

	early := &hudSys{drawSys{name: "early", prio: 1}}
	mid := &skySys{drawSys{name: "mid", prio: 10}}
	require.NoError(t, r.Add(early))
	require.NoError(t, r.Add(mid))

	rs := r.Renderers()
	require.Len(t, rs, 3)
	assert.Equal(t, "early", rs[0].Name())
	assert.Equal(t, "mid", rs[1].Name())
	assert.Equal(t, "late", rs[2].Name())
}

func TestUpdatersView(t *testing.T) {
	r := system.NewRegistry(zap.NewNop())
	tick := &tickSys{}
	require.NoError(t, r.Add(tick))
	require.NoError(t, r.Add(&drawSys{name: "draw"}))

	ups := r.Updaters()
	require.Len(t, ups, 1)
	require.NoError(t, ups[0].Update(event.Frame{Delta: 0.016}))
	assert.Equal(t, 1, tick.frames)
}

func TestSummaryString(t *testing.T) {
	sum := system.Summary{
		Initialized: []string{"a", "b"},
		Skipped:     []string{"c"},
	}
	s := sum.String()
	assert.Contains(t, s, "2 initialized")
	assert.Contains(t, s, "1 skipped (c)")
}
