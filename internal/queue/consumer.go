package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// StartPlugConsumer connects to RabbitMQ, binds the plug.control queue
// to the pos.events exchange, and starts consuming.  Every event is
// appended to logs/pos-events.log in a single-line format; for
// plug_auto_control events the line also records the switch action so
// operators can audit what the plugs were told to do.  The function
// runs a reconnect loop and keeps operating through broker restarts;
// bad messages are rejected without requeue to avoid tight loops.
func StartPlugConsumer() error {
    url := brokerURL()

    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("plug-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn); err != nil {
            log.Printf("plug-consumer: consume loop ended: %v; reconnecting", err)
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("plug-consumer: set QoS failed: %v", err)
    }

    if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
        return fmt.Errorf("exchange declare: %w", err)
    }
    if _, err := ch.QueueDeclare(PlugQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    if err := ch.QueueBind(PlugQueueName, "", ExchangeName, false, nil); err != nil {
        return fmt.Errorf("queue bind: %w", err)
    }

    msgs, err := ch.Consume(PlugQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := handleMessage(d.Body); err != nil {
            log.Printf("plug-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
    var env struct {
        Event     string          `json:"event"`
        Timestamp string          `json:"timestamp"`
        Data      json.RawMessage `json:"data"`
    }
    if err := json.Unmarshal(body, &env); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }

    line := fmt.Sprintf("[%s] %s | %s\n", env.Timestamp, env.Event, string(env.Data))
    if env.Event == EventPlugAutoControl {
        var pc PlugControlEvent
        if err := json.Unmarshal(env.Data, &pc); err != nil {
            return fmt.Errorf("unmarshal plug event: %w", err)
        }
        line = fmt.Sprintf("[%s] plug %s -> %s | table=%s (%d) | reason=%s\n",
            env.Timestamp, pc.PlugID, pc.Action, pc.TableNumber, pc.TableID, pc.Reason)
    }

    if err := os.MkdirAll("logs", 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    fpath := filepath.Join("logs", "pos-events.log")
    f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
