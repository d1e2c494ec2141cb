package crdt

import (
	"github.com/iudanet/bakesync/internal/models"
)

// Side указывает, чья версия записи победила.
type Side int

const (
	SideLocal Side = iota
	SideRemote
)

func (s Side) String() string {
	if s == SideLocal {
		return "local"
	}
	return "remote"
}

// Pick выбирает победителя между локальной и удаленной версией записи
// по правилу Last-Write-Wins (см. models.Record.IsNewerThan).
// nil означает отсутствие записи на соответствующей стороне.
func Pick(local, remote *models.Record) (*models.Record, Side) {
	if local == nil {
		return remote, SideRemote
	}
	if local.IsNewerThan(remote) {
		return local, SideLocal
	}
	return remote, SideRemote
}

// LWWMap представляет Last-Write-Wins коллекцию записей одного типа сущности.
// Удаленные записи остаются в коллекции как tombstone.
type LWWMap struct {
	elements map[string]*models.Record // map[id]record
}

// LWWMapFrom создает коллекцию из глубокой копии records.
func LWWMapFrom(records map[string]*models.Record) *LWWMap {
	m := &LWWMap{elements: make(map[string]*models.Record, len(records))}
	for id, rec := range records {
		m.elements[id] = rec.Clone()
	}
	return m
}

// Add записывает rec, если он побеждает текущую версию по правилу LWW (см. Pick).
// Возвращает true, если коллекция изменилась.
func (m *LWWMap) Add(id string, rec *models.Record) bool {
	if _, side := Pick(rec, m.elements[id]); side == SideRemote {
		return false
	}
	m.elements[id] = rec.Clone()
	return true
}

// Set безусловно записывает значение (локальное изменение без конкурента).
func (m *LWWMap) Set(id string, rec *models.Record) {
	m.elements[id] = rec.Clone()
}

// Get возвращает запись по ID, включая tombstone. nil если записи нет.
func (m *LWWMap) Get(id string) *models.Record {
	return m.elements[id]
}

// Remove физически удаляет запись. Используется только сборщиком tombstone.
func (m *LWWMap) Remove(id string) {
	delete(m.elements, id)
}

// Records возвращает внутреннюю карту записей.
// Коллекция после вызова не должна использоваться повторно.
func (m *LWWMap) Records() map[string]*models.Record {
	return m.elements
}
