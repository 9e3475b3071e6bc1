package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TaskTagEnrich = "tags:enrich"

// Queue wraps the asynq client and worker used for background tag
// enrichment. All tasks are best-effort; a handful of retries, then give
// up quietly.
type Queue struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewQueue(redisAddr string) *Queue {
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		Queues: map[string]int{
			"default": 1,
		},
	})
	return &Queue{
		client: asynq.NewClient(redisOpt),
		server: server,
		mux:    asynq.NewServeMux(),
	}
}

func (q *Queue) enqueue(taskType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if _, err := q.client.Enqueue(asynq.NewTask(taskType, data), asynq.MaxRetry(3)); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

// Start runs the worker loop; it returns once the server is up.
func (q *Queue) Start() error {
	return q.server.Start(q.mux)
}

func (q *Queue) Shutdown() {
	q.server.Shutdown()
	q.client.Close()
}
