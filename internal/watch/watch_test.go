package watch

import (
	"testing"

	"devnovate/internal/models"
)

func TestDecodeEventFullPayload(t *testing.T) {
	payload := `{"op":"UPDATE","blog":{"id":"b1","title":"t","status":"published"}}`

	ev, err := decodeEvent(payload)
	if err != nil {
		t.Fatalf("ошибка декодирования: %v", err)
	}
	if ev.Op != OpUpdate {
		t.Fatalf("ожидался UPDATE, получен %q", ev.Op)
	}
	if ev.ID != "b1" {
		t.Fatalf("id должен браться из строки, получен %q", ev.ID)
	}
	if ev.Blog == nil || ev.Blog.Title != "t" {
		t.Fatalf("строка не распакована: %+v", ev.Blog)
	}
}

func TestDecodeEventTruncatedPayload(t *testing.T) {
	// Усечённый формат: только op и id, без строки.
	ev, err := decodeEvent(`{"op":"INSERT","id":"b9"}`)
	if err != nil {
		t.Fatalf("ошибка декодирования: %v", err)
	}
	if ev.Op != OpInsert || ev.ID != "b9" {
		t.Fatalf("неожиданное событие: %+v", ev)
	}
	if ev.Blog != nil {
		t.Fatal("в усечённом payload строки быть не должно")
	}
}

func TestDecodeEventUnknownOp(t *testing.T) {
	if _, err := decodeEvent(`{"op":"TRUNCATE","id":"b1"}`); err == nil {
		t.Fatal("неизвестная операция должна давать ошибку")
	}
}

func TestDecodeEventBadJSON(t *testing.T) {
	if _, err := decodeEvent(`{broken`); err == nil {
		t.Fatal("битый JSON должен давать ошибку")
	}
}

func TestSubscribeReceivesBroadcast(t *testing.T) {
	w := NewWatcher(nil, nil)

	sub := w.Subscribe()
	defer sub.Close()

	ev := Event{Op: OpInsert, ID: "b1", Blog: &models.Blog{ID: "b1"}}
	w.broadcast(ev)

	select {
	case got := <-sub.C:
		if got.ID != "b1" || got.Op != OpInsert {
			t.Fatalf("неожиданное событие: %+v", got)
		}
	default:
		t.Fatal("событие не доставлено подписчику")
	}
}

func TestSubscriptionCloseIdempotent(t *testing.T) {
	w := NewWatcher(nil, nil)

	sub := w.Subscribe()
	sub.Close()
	sub.Close() // повторный Close не должен паниковать

	if _, ok := <-sub.C; ok {
		t.Fatal("канал закрытой подписки должен быть закрыт")
	}

	// После отписки рассылка не должна попадать в закрытый канал.
	w.broadcast(Event{Op: OpDelete, ID: "b1"})
}

func TestOnReconnectFiresOnlyOnReconnect(t *testing.T) {
	w := NewWatcher(nil, nil)

	calls := 0
	w.OnReconnect(func() { calls++ })

	// Первое подключение — обычный старт, перезагрузка не нужна.
	w.notifyReconnect(false)
	if calls != 0 {
		t.Fatal("первое подключение не должно дёргать обработчик")
	}

	// Каждое восстановление после обрыва — полная перечитка состояния.
	w.notifyReconnect(true)
	w.notifyReconnect(true)
	if calls != 2 {
		t.Fatalf("ожидалось 2 вызова, получено %d", calls)
	}
}

func TestOnReconnectUnsetIsNoop(t *testing.T) {
	w := NewWatcher(nil, nil)
	w.notifyReconnect(true) // без обработчика не должно паниковать
}

func TestSubscriptionCloseWithoutCancel(t *testing.T) {
	// Подписка, собранная вручную (только канал), безопасно закрывается.
	sub := &Subscription{C: make(chan Event)}
	sub.Close()
	sub.Close()
}

func TestSubscribeAfterCloseAll(t *testing.T) {
	w := NewWatcher(nil, nil)
	w.closeAll()

	sub := w.Subscribe()
	if _, ok := <-sub.C; ok {
		t.Fatal("подписка после остановки должна сразу закрываться")
	}
}
