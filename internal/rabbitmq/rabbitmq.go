package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/codearena/judgelet/internal/files"
	"github.com/codearena/judgelet/internal/language"
	"github.com/codearena/judgelet/internal/mappers"
	"github.com/codearena/judgelet/internal/repository/dto"
	"github.com/codearena/judgelet/internal/repository/models"
	"github.com/codearena/judgelet/internal/runner"
)

const (
	reqQueue  = "judge-req"
	respQueue = "judge-resp"

	resolveTimeout = 30 * time.Second
)

type RabbitMqHandlerConfig struct {
	Login            string
	Password         string
	Host             string
	Port             int
	WorkersCount     int
	DefaultTimeLimit time.Duration
	MaxTestCases     int
}

// RabbitMQHandler consumes judge requests from the request queue, validates
// their shape, runs them through the judge and publishes responses. The
// judge behind it assumes pre-validated input.
type RabbitMQHandler struct {
	cfg          RabbitMqHandlerConfig
	judge        runner.Judge
	storage      *files.FileStorage
	languages    *language.Registry
	conn         *amqp.Connection
	consumerChan *amqp.Channel
	producerChan *amqp.Channel
	tasksChan    chan models.AttemptRequest
	wg           *sync.WaitGroup
	closed       bool
}

func NewRabbitMQHandler(cfg RabbitMqHandlerConfig, judge runner.Judge, storage *files.FileStorage, languages *language.Registry) (*RabbitMQHandler, error) {
	return &RabbitMQHandler{
		cfg:       cfg,
		judge:     judge,
		storage:   storage,
		languages: languages,
		tasksChan: make(chan models.AttemptRequest),
		wg:        &sync.WaitGroup{},
	}, nil
}

func (r *RabbitMQHandler) Start() error {
	if err := r.connect(); err != nil {
		return err
	}
	if err := r.startConsumer(); err != nil {
		return errors.Wrap(err, "failed to start consumer")
	}
	if err := r.startProducer(); err != nil {
		return errors.Wrap(err, "failed to start producer")
	}
	for i := 0; i < r.cfg.WorkersCount; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return nil
}

func (r *RabbitMQHandler) Close() {
	r.closed = true
	if r.conn != nil {
		r.conn.Close()
	}
	close(r.tasksChan)
	r.wg.Wait()
}

func (r *RabbitMQHandler) startConsumer() error {
	channel, err := r.conn.Channel()
	if err != nil {
		return err
	}
	queue, err := channel.QueueDeclare(reqQueue, false, false, false, false, nil)
	if err != nil {
		return err
	}
	del, err := channel.Consume(queue.Name, "", true, false, false, false, nil)
	if err != nil {
		return err
	}

	r.consumerChan = channel
	go r.listener(del)
	return nil
}

func (r *RabbitMQHandler) startProducer() error {
	channel, err := r.conn.Channel()
	if err != nil {
		return err
	}
	if _, err := channel.QueueDeclare(respQueue, false, false, false, false, nil); err != nil {
		return err
	}
	r.producerChan = channel
	return nil
}

func (r *RabbitMQHandler) connect() error {
	url := fmt.Sprintf("amqp://%s:%s@%s:%d", r.cfg.Login, r.cfg.Password, r.cfg.Host, r.cfg.Port)
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	r.conn = conn
	errChan := make(chan *amqp.Error)
	conn.NotifyClose(errChan)
	go func() {
		<-errChan
		if r.closed {
			return
		}

		for {
			time.Sleep(time.Second * 15)
			err := r.Start()
			if err == nil {
				return
			}
		}
	}()
	return nil
}

func (r *RabbitMQHandler) listener(taskChan <-chan amqp.Delivery) {
	for data := range taskChan {
		var task models.AttemptRequest
		if err := json.Unmarshal(data.Body, &task); err != nil {
			slog.Error("invalid task message", "message", string(data.Body))
			continue
		}
		r.tasksChan <- task
	}
}

func (r *RabbitMQHandler) worker() {
	defer r.wg.Done()

	for task := range r.tasksChan {
		r.send(r.process(&task))
	}
}

func (r *RabbitMQHandler) process(task *models.AttemptRequest) *models.AttemptResponse {
	if err := r.validate(task); err != nil {
		return &models.AttemptResponse{Id: task.Id, Verdict: models.VerdictIE, FirstFailure: -1, Error: err.Error()}
	}
	sub, err := r.buildSubmission(task)
	if err != nil {
		slog.Error("failed to resolve test cases", "attempt", task.Id, "error", err)
		return &models.AttemptResponse{Id: task.Id, Verdict: models.VerdictIE, FirstFailure: -1, Error: "failed to resolve test cases"}
	}

	report, err := r.judge.Judge(sub)
	if err != nil {
		slog.Error("judge failed", "attempt", task.Id, "error", err)
		return &models.AttemptResponse{Id: task.Id, Verdict: models.VerdictIE, FirstFailure: -1, Error: "internal judge error"}
	}
	return mappers.ReportToAttemptResponse(task, report)
}

func (r *RabbitMQHandler) validate(task *models.AttemptRequest) error {
	if !r.languages.Has(task.Language) {
		return errors.Errorf("unsupported language %q", task.Language)
	}
	if task.Code == "" {
		return errors.New("empty source code")
	}
	if len(task.TestCases) == 0 {
		return errors.New("no test cases")
	}
	if len(task.TestCases) > r.cfg.MaxTestCases {
		return errors.Errorf("too many test cases: %d > %d", len(task.TestCases), r.cfg.MaxTestCases)
	}
	return nil
}

func (r *RabbitMQHandler) buildSubmission(task *models.AttemptRequest) (*dto.Submission, error) {
	timeLimit := r.cfg.DefaultTimeLimit
	if task.TimeoutMs > 0 {
		timeLimit = time.Duration(task.TimeoutMs) * time.Millisecond
	}
	sub := &dto.Submission{
		Language:  task.Language,
		Code:      task.Code,
		TimeLimit: timeLimit,
		TestCases: make([]dto.TestCase, 0, len(task.TestCases)),
	}

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	for _, tc := range task.TestCases {
		resolved := dto.TestCase{Input: tc.Input, ExpectedOutput: tc.ExpectedOutput}
		var err error
		if tc.InputFile != "" {
			if resolved.Input, err = r.storage.GetText(ctx, tc.InputFile); err != nil {
				return nil, err
			}
		}
		if tc.ExpectedFile != "" {
			if resolved.ExpectedOutput, err = r.storage.GetText(ctx, tc.ExpectedFile); err != nil {
				return nil, err
			}
		}
		sub.TestCases = append(sub.TestCases, resolved)
	}
	return sub, nil
}

func (r *RabbitMQHandler) send(data *models.AttemptResponse) {
	if !r.closed {
		body, _ := json.Marshal(data)
		err := r.producerChan.Publish("", respQueue, false, false, amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
		if err != nil {
			slog.Error("failed to send response to queue", "error", err)
		}
	}
}
