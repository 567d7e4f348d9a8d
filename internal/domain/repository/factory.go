package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Clients() ClientRepository
	Orders() OrderRepository
	Products() ProductRepository
	Invoices() InvoiceRepository
	Audit() AuditRepository
	Notifications() NotificationRepository
	SystemConfig() SystemConfigRepository
	Media() MediaRepository
}
