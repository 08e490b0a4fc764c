package alert

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockMate/pkg/market"
	"StockMate/pkg/model"
)

// fakeProvider 固定价格或一律失败的数据源桩
type fakeProvider struct {
	price float64
	err   error
}

func (f *fakeProvider) FastPrice(symbol string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.price, nil
}

func (f *fakeProvider) Chart(symbol, dataRange, interval string) (model.PriceHistory, error) {
	return nil, errors.New("unused")
}

func (f *fakeProvider) QuoteName(symbol string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "台積電", nil
}

// fakeNotifier 记录推送的通知
type fakeNotifier struct {
	pushes []string
	err    error
}

func (f *fakeNotifier) PushText(userID, text string) error {
	if f.err != nil {
		return f.err
	}
	f.pushes = append(f.pushes, userID+": "+text)
	return nil
}

func newTestMonitor(provider market.Provider, notifier Notifier) (*Monitor, *Store) {
	store := NewStore()
	svc := market.NewService(provider, market.NewNameCache(), zerolog.Nop())
	return NewMonitor(store, svc, notifier, zerolog.Nop()), store
}

func TestRunSweep_FireOnce(t *testing.T) {
	notifier := &fakeNotifier{}
	monitor, store := newTestMonitor(&fakeProvider{price: 850}, notifier)

	store.Add("user-1", model.NewAlertCondition("2330", ">", 800))

	monitor.RunSweep()
	require.Len(t, notifier.pushes, 1)
	assert.Contains(t, notifier.pushes[0], "user-1")
	assert.Contains(t, notifier.pushes[0], "警示觸發")
	assert.Contains(t, notifier.pushes[0], "台積電(2330)")
	assert.Contains(t, notifier.pushes[0], "高於 800 元")
	assert.Equal(t, 0, store.Count("user-1"))

	// 条件已移除，同价或更高价的后续巡检不再通知
	monitor.RunSweep()
	assert.Len(t, notifier.pushes, 1)
}

func TestRunSweep_NotTriggeredRetained(t *testing.T) {
	notifier := &fakeNotifier{}
	monitor, store := newTestMonitor(&fakeProvider{price: 750}, notifier)

	store.Add("user-1", model.NewAlertCondition("2330", ">", 800))

	monitor.RunSweep()
	assert.Empty(t, notifier.pushes)
	assert.Equal(t, 1, store.Count("user-1"))
}

func TestRunSweep_RetainedOnPriceFailure(t *testing.T) {
	notifier := &fakeNotifier{}
	monitor, store := newTestMonitor(&fakeProvider{err: errors.New("down")}, notifier)

	cond := model.NewAlertCondition("2330", ">", 800)
	store.Add("user-1", cond)

	monitor.RunSweep()
	assert.Empty(t, notifier.pushes)

	snapshot := store.Snapshot("user-1")
	require.Len(t, snapshot, 1)
	assert.Equal(t, cond.ID, snapshot[0].ID)
}

func TestRunSweep_RetainedOnNotifyFailure(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("push failed")}
	monitor, store := newTestMonitor(&fakeProvider{price: 850}, notifier)

	store.Add("user-1", model.NewAlertCondition("2330", ">", 800))

	monitor.RunSweep()
	// 通知失败时条件保留，待下一轮重试
	assert.Equal(t, 1, store.Count("user-1"))
}

func TestRunSweep_BelowOperator(t *testing.T) {
	notifier := &fakeNotifier{}
	monitor, store := newTestMonitor(&fakeProvider{price: 95.5}, notifier)

	store.Add("user-1", model.NewAlertCondition("2888", "<", 100))

	monitor.RunSweep()
	require.Len(t, notifier.pushes, 1)
	assert.Contains(t, notifier.pushes[0], "低於 100 元")
	assert.Equal(t, 0, store.Count("user-1"))
}

func TestRunSweep_MultipleUsersIndependent(t *testing.T) {
	notifier := &fakeNotifier{}
	monitor, store := newTestMonitor(&fakeProvider{price: 850}, notifier)

	store.Add("user-1", model.NewAlertCondition("2330", ">", 800))
	store.Add("user-2", model.NewAlertCondition("2330", ">", 900))

	monitor.RunSweep()
	require.Len(t, notifier.pushes, 1)
	assert.Contains(t, notifier.pushes[0], "user-1")
	assert.Equal(t, 1, store.Count("user-2"))
}

func TestRunSweep_DuplicateConditionsFireIndependently(t *testing.T) {
	notifier := &fakeNotifier{}
	monitor, store := newTestMonitor(&fakeProvider{price: 850}, notifier)

	store.Add("user-1", model.NewAlertCondition("2330", ">", 800))
	store.Add("user-1", model.NewAlertCondition("2330", ">", 800))

	monitor.RunSweep()
	assert.Len(t, notifier.pushes, 2)
	assert.Equal(t, 0, store.Count("user-1"))
}
