package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Africall/sote-minimart/internal/core/domain"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockJournalPoster is a mock type for the JournalPosterSvc interface
type MockJournalPoster struct {
	mock.Mock
}

func (m *MockJournalPoster) Post(ctx context.Context, source domain.JournalSource, sourceID string) (*domain.PostResult, error) {
	args := m.Called(ctx, source, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostResult), args.Error(1)
}

func (m *MockJournalPoster) PostSale(ctx context.Context, saleID string) (*domain.PostResult, error) {
	return m.Post(ctx, domain.SourceSale, saleID)
}

func (m *MockJournalPoster) PostExpense(ctx context.Context, expenseID string) (*domain.PostResult, error) {
	return m.Post(ctx, domain.SourceExpense, expenseID)
}

func (m *MockJournalPoster) PostShift(ctx context.Context, shiftID string) (*domain.PostResult, error) {
	return m.Post(ctx, domain.SourceShift, shiftID)
}

func (m *MockJournalPoster) PostReconciliation(ctx context.Context, reconciliationID string) (*domain.PostResult, error) {
	return m.Post(ctx, domain.SourceRecon, reconciliationID)
}

func (m *MockJournalPoster) PostAll(ctx context.Context, source domain.JournalSource) (*domain.PostAllResult, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PostAllResult), args.Error(1)
}

func TestPostingQueue_PostsQueuedTasks(t *testing.T) {
	poster := new(MockJournalPoster)
	done := make(chan string, 2)
	for _, id := range []string{"sale-1", "sale-2"} {
		poster.On("Post", mock.Anything, domain.SourceSale, id).
			Run(func(args mock.Arguments) { done <- args.String(2) }).
			Return(&domain.PostResult{Status: domain.PostPosted}, nil).Once()
	}

	q := services.NewPostingQueue(poster, 4, 2, nil)
	q.Start(context.Background())
	q.Start(context.Background())

	assert.True(t, q.Enqueue(portssvc.PostingTask{Source: domain.SourceSale, SourceID: "sale-1"}))
	assert.True(t, q.Enqueue(portssvc.PostingTask{Source: domain.SourceSale, SourceID: "sale-2"}))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-done:
			got[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("queued posting did not run")
		}
	}
	assert.Equal(t, map[string]bool{"sale-1": true, "sale-2": true}, got)

	q.Stop()
	q.Stop()
	poster.AssertExpectations(t)
}

func TestPostingQueue_DropsWhenFullOrStopped(t *testing.T) {
	poster := new(MockJournalPoster)
	q := services.NewPostingQueue(poster, 1, 1, nil)

	// Not started, so the single slot stays occupied.
	assert.True(t, q.Enqueue(portssvc.PostingTask{Source: domain.SourceSale, SourceID: "a"}))
	assert.False(t, q.Enqueue(portssvc.PostingTask{Source: domain.SourceSale, SourceID: "b"}))

	poster.On("Post", mock.Anything, domain.SourceSale, "a").
		Return(nil, errors.New("store down")).Once()
	q.Start(context.Background())
	q.Stop()

	assert.False(t, q.Enqueue(portssvc.PostingTask{Source: domain.SourceSale, SourceID: "c"}))
	poster.AssertExpectations(t)
}

func TestPostingSweeper_RunOnceCoversEverySource(t *testing.T) {
	poster := new(MockJournalPoster)
	poster.On("PostAll", mock.Anything, domain.SourceSale).
		Return(&domain.PostAllResult{Source: domain.SourceSale, Posted: 3}, nil).Once()
	poster.On("PostAll", mock.Anything, domain.SourceExpense).
		Return(nil, errors.New("store down")).Once()
	poster.On("PostAll", mock.Anything, domain.SourceShift).
		Return(&domain.PostAllResult{Source: domain.SourceShift}, nil).Once()
	poster.On("PostAll", mock.Anything, domain.SourceRecon).
		Return(&domain.PostAllResult{Source: domain.SourceRecon, Failed: 1}, nil).Once()

	sweeper := services.NewPostingSweeper(poster, time.Minute, nil)
	results := sweeper.RunOnce(context.Background())

	require.Len(t, results, 3)
	assert.Equal(t, 3, results[0].Posted)
	assert.Equal(t, domain.SourceShift, results[1].Source)
	assert.Equal(t, 1, results[2].Failed)
	poster.AssertExpectations(t)
}

func TestPostingSweeper_StartSweepsImmediately(t *testing.T) {
	poster := new(MockJournalPoster)
	swept := make(chan domain.JournalSource, 8)
	poster.On("PostAll", mock.Anything, mock.AnythingOfType("domain.JournalSource")).
		Run(func(args mock.Arguments) { swept <- args.Get(1).(domain.JournalSource) }).
		Return(&domain.PostAllResult{}, nil)

	sweeper := services.NewPostingSweeper(poster, time.Hour, nil)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	select {
	case source := <-swept:
		assert.Equal(t, domain.SourceSale, source)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not run on start")
	}
}

func TestPostingSweeper_DisabledByZeroInterval(t *testing.T) {
	poster := new(MockJournalPoster)
	sweeper := services.NewPostingSweeper(poster, 0, nil)
	sweeper.Start(context.Background())
	sweeper.Stop()
	poster.AssertNotCalled(t, "PostAll", mock.Anything, mock.Anything)
}

func TestQueueAndSweeperEndToEnd(t *testing.T) {
	ctx := context.Background()
	env := newTillEnv(t, domain.StockBestEffort)
	sale := func(amount string) string {
		res, err := env.checkout.Checkout(ctx, dtoMpesaSale(amount))
		require.NoError(t, err)
		return res.Sale.SaleID
	}
	first := sale("40")
	second := sale("60")

	// The first sale is posted through the queue; the second is left for the sweeper.
	queue := services.NewPostingQueue(env.journals, 4, 1, nil)
	queue.Start(ctx)
	require.True(t, queue.Enqueue(portssvc.PostingTask{Source: domain.SourceSale, SourceID: first}))
	queue.Stop()

	journal, err := env.repos.JournalRepo.FindJournalBySource(ctx, domain.SourceSale, first)
	require.NoError(t, err)
	assert.Equal(t, first, journal.SourceID)

	sweeper := services.NewPostingSweeper(env.journals, time.Minute, nil)
	results := sweeper.RunOnce(ctx)
	require.NotEmpty(t, results)
	assert.Equal(t, domain.SourceSale, results[0].Source)
	assert.Equal(t, 1, results[0].Posted)

	_, err = env.repos.JournalRepo.FindJournalBySource(ctx, domain.SourceSale, second)
	assert.NoError(t, err)
}
