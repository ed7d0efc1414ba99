package repository

import (
	"astraldraw/application"
	"astraldraw/database"
	"astraldraw/domain/interfaces"
)

// CreateTestUnitOfWork creates a unit of work for testing with the
// provided transactional publisher
func CreateTestUnitOfWork(db *database.DB, publisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	factory := NewUnitOfWorkFactory(db, func() interfaces.TransactionalEventPublisher {
		return publisher
	})
	return factory.Create()
}
