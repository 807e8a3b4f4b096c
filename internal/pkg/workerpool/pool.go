package workerpool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// TaskResult 任务结果
type TaskResult struct {
	Data  interface{}
	Error error
}

// Config Worker Pool 配置
type Config struct {
	Workers     int  `mapstructure:"workers"`      // worker 数量
	NonBlocking bool `mapstructure:"non_blocking"` // 池满时直接返回错误而不是等待
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Workers: 8,
	}
}

// Statistics 统计信息
type Statistics struct {
	mu sync.RWMutex

	Submitted int64 // 已提交
	Completed int64 // 已完成
	Failed    int64 // 失败
	Running   int64 // 运行中
}

func (s *Statistics) incSubmitted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Submitted++
}

func (s *Statistics) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Running++
}

func (s *Statistics) finish(failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Running--
	if failed {
		s.Failed++
	} else {
		s.Completed++
	}
}

// Snapshot returns a copy of the counters.
func (s *Statistics) Snapshot() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Statistics{
		Submitted: s.Submitted,
		Completed: s.Completed,
		Failed:    s.Failed,
		Running:   s.Running,
	}
}

// Pool bounds how many tool calls run at the same time.
type Pool struct {
	pool   *ants.Pool
	stats  *Statistics
	logger *zap.Logger
	wg     sync.WaitGroup
}

// New 创建 worker pool
func New(config *Config, logger *zap.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	size := config.Workers
	if size <= 0 {
		size = DefaultConfig().Workers
	}

	antsPool, err := ants.NewPool(size,
		ants.WithNonblocking(config.NonBlocking),
		ants.WithPanicHandler(func(err interface{}) {
			logger.Error("worker panic", zap.Any("error", err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}

	return &Pool{
		pool:   antsPool,
		stats:  &Statistics{},
		logger: logger,
	}, nil
}

// Submit 提交任务
func (p *Pool) Submit(task func()) error {
	p.stats.incSubmitted()
	p.wg.Add(1)
	err := p.pool.Submit(func() {
		defer p.wg.Done()
		p.stats.start()
		defer p.stats.finish(false)
		task()
	})
	if err != nil {
		p.wg.Done()
	}
	return p.translate(err)
}

// SubmitWithResult 提交带返回值的任务。结果通道总会收到恰好一个结果。
func (p *Pool) SubmitWithResult(task func() (interface{}, error)) <-chan TaskResult {
	resultCh := make(chan TaskResult, 1)
	p.stats.incSubmitted()
	p.wg.Add(1)

	err := p.pool.Submit(func() {
		defer p.wg.Done()
		p.stats.start()
		failed := true
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("task panic", zap.Any("panic", r))
				resultCh <- TaskResult{Error: fmt.Errorf("task panic: %v", r)}
			}
			p.stats.finish(failed)
		}()

		data, err := task()
		failed = err != nil
		resultCh <- TaskResult{Data: data, Error: err}
	})
	if err != nil {
		p.wg.Done()
		resultCh <- TaskResult{Error: p.translate(err)}
	}

	return resultCh
}

func (p *Pool) translate(err error) error {
	if errors.Is(err, ants.ErrPoolClosed) {
		return ErrPoolClosed
	}
	return err
}

// Running 运行中的 worker 数
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Cap worker 上限
func (p *Pool) Cap() int {
	return p.pool.Cap()
}

// Stats 统计信息
func (p *Pool) Stats() Statistics {
	return p.stats.Snapshot()
}

// Shutdown 等待已提交任务完成后关闭 pool
func (p *Pool) Shutdown() {
	p.wg.Wait()
	p.pool.Release()
}
