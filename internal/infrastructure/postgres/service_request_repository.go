package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

var (
	_ repository.ServiceRequestRepository = (*ServiceRequestRepo)(nil)
	_ repository.DeliverableRepository    = (*DeliverableRepo)(nil)
)

// ServiceRequestRepo solicitudes de servicio con nombres resueltos por JOIN.
type ServiceRequestRepo struct {
	q Querier
}

// NewServiceRequestRepository construye el repositorio (pool o tx).
func NewServiceRequestRepository(q Querier) *ServiceRequestRepo {
	return &ServiceRequestRepo{q: q}
}

const requestFrom = `
	FROM service_requests r
	JOIN services s ON s.id = r.service_id
	JOIN users cl ON cl.id = r.client_id
	LEFT JOIN users asg ON asg.id = r.assigned_to`

const requestSelect = `
	SELECT r.id, r.service_id, r.client_id, r.assigned_to::text, r.title, r.description, r.status, r.priority,
		r.deadline, r.completed_at, r.created_at, r.updated_at,
		s.name, cl.username, COALESCE(asg.username, '')` + requestFrom

func scanRequest(row pgx.Row) (*entity.ServiceRequest, error) {
	var r entity.ServiceRequest
	err := row.Scan(
		&r.ID, &r.ServiceID, &r.ClientID, &r.AssignedTo, &r.Title, &r.Description, &r.Status, &r.Priority,
		&r.Deadline, &r.CompletedAt, &r.CreatedAt, &r.UpdatedAt,
		&r.ServiceName, &r.ClientUsername, &r.AssigneeUsername,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *ServiceRequestRepo) Create(ctx context.Context, r *entity.ServiceRequest) error {
	_, err := repo.q.Exec(ctx, `
		INSERT INTO service_requests (id, service_id, client_id, assigned_to, title, description, status,
			priority, deadline, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.ID, r.ServiceID, r.ClientID, r.AssignedTo, r.Title, r.Description, r.Status,
		r.Priority, r.Deadline, r.CompletedAt, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert service request: %w", err)
	}
	return nil
}

func (repo *ServiceRequestRepo) GetByID(ctx context.Context, id string) (*entity.ServiceRequest, error) {
	r, err := scanRequest(repo.q.QueryRow(ctx, requestSelect+` WHERE r.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get service request: %w", err)
	}
	return r, nil
}

func (repo *ServiceRequestRepo) Update(ctx context.Context, r *entity.ServiceRequest) error {
	tag, err := repo.q.Exec(ctx, `
		UPDATE service_requests SET service_id = $2, assigned_to = $3, title = $4, description = $5,
			status = $6, priority = $7, deadline = $8, completed_at = $9, updated_at = $10
		WHERE id = $1`,
		r.ID, r.ServiceID, r.AssignedTo, r.Title, r.Description,
		r.Status, r.Priority, r.Deadline, r.CompletedAt, r.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update service request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (repo *ServiceRequestRepo) Delete(ctx context.Context, id string) error {
	if _, err := repo.q.Exec(ctx, `DELETE FROM service_requests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete service request: %w", err)
	}
	return nil
}

func (repo *ServiceRequestRepo) List(ctx context.Context, f repository.RequestFilter) ([]*entity.ServiceRequest, int, error) {
	w := &where{}
	if f.ClientID != "" {
		w.add("r.client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		w.add("r.status = ?", f.Status)
	}
	if f.ServiceID != "" {
		w.add("r.service_id = ?", f.ServiceID)
	}
	if f.AssignedTo != "" {
		w.add("r.assigned_to = ?", f.AssignedTo)
	}
	w.search(f.Search, "r.title", "r.description")

	total, err := w.count(ctx, repo.q, requestFrom)
	if err != nil {
		return nil, 0, fmt.Errorf("count service requests: %w", err)
	}
	limit, args := w.page(f.Page)
	rows, err := repo.q.Query(ctx, requestSelect+w.sql()+` ORDER BY r.created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list service requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.ServiceRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan service request: %w", err)
		}
		list = append(list, r)
	}
	return list, total, rows.Err()
}

// DeliverableRepo entregables; el objeto vive en el almacenamiento, aquí solo los metadatos.
type DeliverableRepo struct {
	q Querier
}

// NewDeliverableRepository construye el repositorio de entregables.
func NewDeliverableRepository(q Querier) *DeliverableRepo {
	return &DeliverableRepo{q: q}
}

const deliverableFrom = `
	FROM deliverables d
	JOIN service_requests r ON r.id = d.request_id
	LEFT JOIN users u ON u.id = d.uploaded_by`

const deliverableSelect = `
	SELECT d.id, d.request_id, d.name, d.description, d.file_key, d.file_name, d.content_type, d.size,
		COALESCE(d.uploaded_by::text, ''), d.uploaded_at, r.title, COALESCE(u.username, '')` + deliverableFrom

func scanDeliverable(row pgx.Row) (*entity.Deliverable, error) {
	var d entity.Deliverable
	err := row.Scan(&d.ID, &d.RequestID, &d.Name, &d.Description, &d.FileKey, &d.FileName, &d.ContentType,
		&d.Size, &d.UploadedBy, &d.UploadedAt, &d.RequestTitle, &d.UploadedByUsername)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (repo *DeliverableRepo) Create(ctx context.Context, d *entity.Deliverable) error {
	_, err := repo.q.Exec(ctx, `
		INSERT INTO deliverables (id, request_id, name, description, file_key, file_name, content_type,
			size, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.RequestID, d.Name, d.Description, d.FileKey, d.FileName, d.ContentType,
		d.Size, nullIfEmpty(d.UploadedBy), d.UploadedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert deliverable: %w", err)
	}
	return nil
}

func (repo *DeliverableRepo) GetByID(ctx context.Context, id string) (*entity.Deliverable, error) {
	d, err := scanDeliverable(repo.q.QueryRow(ctx, deliverableSelect+` WHERE d.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deliverable: %w", err)
	}
	return d, nil
}

func (repo *DeliverableRepo) Delete(ctx context.Context, id string) error {
	if _, err := repo.q.Exec(ctx, `DELETE FROM deliverables WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete deliverable: %w", err)
	}
	return nil
}

// ListByRequest en orden de subida.
func (repo *DeliverableRepo) ListByRequest(ctx context.Context, requestID string) ([]*entity.Deliverable, error) {
	return repo.list(ctx, deliverableSelect+` WHERE d.request_id = $1 ORDER BY d.uploaded_at`, requestID)
}

// List más recientes primero; clientID filtra por el dueño de la solicitud.
func (repo *DeliverableRepo) List(ctx context.Context, clientID string, p repository.Page) ([]*entity.Deliverable, int, error) {
	w := &where{}
	if clientID != "" {
		w.add("r.client_id = ?", clientID)
	}
	total, err := w.count(ctx, repo.q, deliverableFrom)
	if err != nil {
		return nil, 0, fmt.Errorf("count deliverables: %w", err)
	}
	limit, args := w.page(p)
	list, err := repo.list(ctx, deliverableSelect+w.sql()+` ORDER BY d.uploaded_at DESC`+limit, args...)
	return list, total, err
}

func (repo *DeliverableRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Deliverable, error) {
	rows, err := repo.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliverables: %w", err)
	}
	defer rows.Close()
	var list []*entity.Deliverable
	for rows.Next() {
		d, err := scanDeliverable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deliverable: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
