package event

// Topic names a scene-level event.
type Topic string

// Inbound topics are published by game objects and UI and handled by the
// scene.
const (
	ChestOpened    Topic = "chest-opened"
	QuizAnswered   Topic = "quiz-answered"
	EnemyDestroyed Topic = "enemy-destroyed"
	PlayerDefeated Topic = "player-defeated"
	DialogClosed   Topic = "dialog-closed"
	BossDefeated   Topic = "boss-defeated"
)

// Outbound topics are published by the scene for UI and the outer loop.
const (
	ShowQuiz    Topic = "show-quiz"
	ShowDialog  Topic = "show-dialog"
	PotBroken   Topic = "pot-broken"
	LevelChange Topic = "level-change"
	GameOver    Topic = "game-over"
)

type Chest struct {
	RoomID  int
	ChestID int
}

type QuizAnswer struct {
	Correct bool
}

type Enemy struct {
	Entity uint64
	RoomID int
}

type Dialog struct {
	Text string
}

type Pot struct {
	Entity uint64
	X      float64
	Y      float64
}

type Level struct {
	Level  string
	RoomID int
	DoorID int
}

// Event is delivered to handlers with its topic and payload.
type Event struct {
	Topic   Topic
	Payload any
}

type Handler func(Event)

// Subscription identifies one registered handler.
type Subscription struct {
	topic Topic
	id    uint64
}

type subscriber struct {
	id uint64
	fn Handler
}

// Bus is a synchronous publish/subscribe dispatcher:
//   - single-threaded, handlers run inside Publish
//   - handlers for a topic are invoked in registration order
//   - a handler may publish or (un)subscribe; changes apply to the next Publish
type Bus struct {
	handlers map[Topic][]subscriber
	nextID   uint64
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]subscriber)}
}

// Subscribe registers fn for topic.
func (b *Bus) Subscribe(topic Topic, fn Handler) Subscription {
	b.nextID++
	b.handlers[topic] = append(b.handlers[topic], subscriber{id: b.nextID, fn: fn})
	return Subscription{topic: topic, id: b.nextID}
}

// Unsubscribe removes a handler. It reports false if it was already removed.
func (b *Bus) Unsubscribe(s Subscription) bool {
	subs := b.handlers[s.topic]
	for i, sub := range subs {
		if sub.id != s.id {
			continue
		}
		next := make([]subscriber, 0, len(subs)-1)
		next = append(next, subs[:i]...)
		next = append(next, subs[i+1:]...)
		if len(next) == 0 {
			delete(b.handlers, s.topic)
		} else {
			b.handlers[s.topic] = next
		}
		return true
	}
	return false
}

// Publish delivers payload to every handler of topic.
func (b *Bus) Publish(topic Topic, payload any) {
	subs := b.handlers[topic]
	if len(subs) == 0 {
		return
	}
	evt := Event{Topic: topic, Payload: payload}
	for _, sub := range subs {
		sub.fn(evt)
	}
}

// HandlerCount returns the number of handlers registered for topic.
func (b *Bus) HandlerCount(topic Topic) int {
	return len(b.handlers[topic])
}
