package crdt

import (
	"sync"
)

// SeqClock представляет монотонный счетчик операций одного устройства.
// Каждая локальная мутация получает следующий seq, что задает полный
// порядок операций устройства над любой сущностью.
type SeqClock struct {
	deviceID string     // идентификатор устройства
	counter  int64      // монотонно возрастающий счетчик
	mu       sync.Mutex // мьютекс для потокобезопасности
}

// NewSeqClockWithDeviceID создает счетчик с заданным идентификатором устройства
// и начальным значением. Используется при восстановлении состояния после перезапуска.
func NewSeqClockWithDeviceID(deviceID string, start int64) *SeqClock {
	return &SeqClock{
		deviceID: deviceID,
		counter:  start,
	}
}

// Next увеличивает счетчик и возвращает новое значение.
func (c *SeqClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter++
	return c.counter
}

// Restore поднимает счетчик до seq, если он меньше.
// Счетчик никогда не уменьшается.
func (c *SeqClock) Restore(seq int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq > c.counter {
		c.counter = seq
	}
}

// DeviceID возвращает идентификатор устройства.
func (c *SeqClock) DeviceID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.deviceID
}
