package backoffice

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uranusgroup/uranus-web/internal/application/contact"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/notification"
	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/policy"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

// Tipos de campo de formulario.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldCheckbox = "checkbox"
	FieldNumber   = "number"
	FieldPassword = "password"
	FieldEmail    = "email"
	FieldDateTime = "datetime-local"
)

// DateTimeLayout formato de los inputs datetime-local.
const DateTimeLayout = "2006-01-02T15:04"

// Option valor/etiqueta de un select o filtro.
type Option struct {
	Value string
	Label string
}

// Field campo editable de un recurso. Load resuelve opciones dinámicas (staff, categorías...).
type Field struct {
	Name     string
	Label    string
	Type     string
	Options  []Option
	Load     func(ctx context.Context, actor *entity.User) ([]Option, error)
	Required bool
	Help     string
}

// ListQuery filtros comunes de las pantallas de listado.
type ListQuery struct {
	Filter string
	Search string
	Page   repository.Page
}

// Row fila del listado: ID y celdas ya formateadas en el orden de Resource.Columns.
type Row struct {
	ID    string
	Cells []string
}

// ListResult página de filas y total sin paginar.
type ListResult struct {
	Rows  []Row
	Total int
}

// Resource pantalla genérica del back-office. Save recibe bind para rellenar el DTO
// del recurso desde la petición y devuelve el ID guardado.
type Resource struct {
	Name        string
	Label       string
	LabelPlural string
	Columns     []string
	FilterName  string
	FilterLabel string
	Filters     []Option
	Fields      []Field
	CanCreate   bool
	CanEdit     bool

	List   func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error)
	Get    func(ctx context.Context, actor *entity.User, id string) (map[string]string, error)
	Save   func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error)
	Delete func(ctx context.Context, actor *entity.User, id string) error
}

// ResolvedFields campos con las opciones dinámicas ya cargadas.
func (r *Resource) ResolvedFields(ctx context.Context, actor *entity.User) ([]Field, error) {
	out := make([]Field, len(r.Fields))
	for i, f := range r.Fields {
		if f.Load != nil {
			opts, err := f.Load(ctx, actor)
			if err != nil {
				return nil, fmt.Errorf("backoffice: opciones de %s.%s: %w", r.Name, f.Name, err)
			}
			f.Options = append([]Option{{Value: "", Label: "---------"}}, opts...)
		}
		out[i] = f
	}
	return out, nil
}

// Registry recursos registrados en orden de alta.
type Registry struct {
	order     []string
	resources map[string]*Resource
}

// NewEmptyRegistry registro vacío.
func NewEmptyRegistry() *Registry {
	return &Registry{resources: make(map[string]*Resource)}
}

// Register añade un recurso; un nombre repetido es un error de programación.
func (r *Registry) Register(res *Resource) {
	if _, ok := r.resources[res.Name]; ok {
		panic("backoffice: recurso duplicado " + res.Name)
	}
	r.order = append(r.order, res.Name)
	r.resources[res.Name] = res
}

// Get recurso por nombre.
func (r *Registry) Get(name string) (*Resource, bool) {
	res, ok := r.resources[name]
	return res, ok
}

// All recursos en orden de registro.
func (r *Registry) All() []*Resource {
	out := make([]*Resource, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.resources[n])
	}
	return out
}

// RegistryDeps casos de uso administrados desde el panel.
type RegistryDeps struct {
	Users         *usecase.UserUseCase
	Catalog       *usecase.CatalogUseCase
	Blog          *usecase.BlogUseCase
	Content       *usecase.SiteContentUseCase
	Requests      *workflow.RequestUseCase
	Deliverables  *workflow.DeliverableUseCase
	Tickets       *workflow.TicketUseCase
	Notifications *notification.UseCase
	Contact       *contact.UseCase
}

// NewRegistry registra explícitamente todos los recursos del panel.
func NewRegistry(d RegistryDeps) *Registry {
	reg := NewEmptyRegistry()
	reg.Register(usersResource(d))
	reg.Register(serviceCategoriesResource(d))
	reg.Register(servicesResource(d))
	reg.Register(requestsResource(d))
	reg.Register(deliverablesResource(d))
	reg.Register(ticketsResource(d))
	reg.Register(notificationsResource(d))
	reg.Register(blogCategoriesResource(d))
	reg.Register(articlesResource(d))
	reg.Register(sliderResource(d))
	reg.Register(teamResource(d))
	reg.Register(testimonialsResource(d))
	reg.Register(certificationsResource(d))
	reg.Register(contactResource(d))
	return reg
}

// ---- opciones compartidas ----

func roleOptions() []Option {
	out := make([]Option, 0, len(entity.Roles))
	for _, r := range entity.Roles {
		out = append(out, Option{Value: string(r), Label: r.Label()})
	}
	return out
}

func requestStatusOptions() []Option {
	out := make([]Option, 0, len(entity.RequestStatuses))
	for _, s := range entity.RequestStatuses {
		out = append(out, Option{Value: string(s), Label: s.Label()})
	}
	return out
}

func ticketStatusOptions() []Option {
	out := make([]Option, 0, len(entity.TicketStatuses))
	for _, s := range entity.TicketStatuses {
		out = append(out, Option{Value: string(s), Label: s.Label()})
	}
	return out
}

func priorityOptions() []Option {
	out := make([]Option, 0, len(entity.Priorities))
	for _, p := range entity.Priorities {
		out = append(out, Option{Value: string(p), Label: p.Label()})
	}
	return out
}

var (
	serviceStatusOptions    = []Option{{Value: entity.ServiceStatusActive, Label: "Actif"}, {Value: entity.ServiceStatusInactive, Label: "Inactif"}}
	articleStatusOptions    = []Option{{Value: entity.ArticleDraft, Label: "Brouillon"}, {Value: entity.ArticlePublished, Label: "Publié"}, {Value: entity.ArticleArchived, Label: "Archivé"}}
	notificationTypeOptions = []Option{{Value: string(entity.NotificationInfo), Label: "Information"}, {Value: string(entity.NotificationSuccess), Label: "Succès"}, {Value: string(entity.NotificationWarning), Label: "Avertissement"}, {Value: string(entity.NotificationError), Label: "Erreur"}}
	contactStatusOptions    = []Option{{Value: entity.ContactNew, Label: "Nouveau"}, {Value: entity.ContactRead, Label: "Lu"}, {Value: entity.ContactReplied, Label: "Répondu"}, {Value: entity.ContactArchived, Label: "Archivé"}}
)

func staffOptions(users *usecase.UserUseCase) func(context.Context, *entity.User) ([]Option, error) {
	return func(ctx context.Context, actor *entity.User) ([]Option, error) {
		staff, err := users.ListStaff(ctx, actor)
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(staff))
		for _, u := range staff {
			out = append(out, Option{Value: u.ID, Label: u.DisplayName() + " (" + u.Role.Label() + ")"})
		}
		return out, nil
	}
}

func userOptions(users *usecase.UserUseCase) func(context.Context, *entity.User) ([]Option, error) {
	return func(ctx context.Context, actor *entity.User) ([]Option, error) {
		list, _, err := users.List(ctx, actor, repository.UserFilter{Page: repository.Page{Limit: 500}})
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(list))
		for _, u := range list {
			out = append(out, Option{Value: u.ID, Label: u.DisplayName() + " (" + u.Role.Label() + ")"})
		}
		return out, nil
	}
}

func serviceCategoryOptions(catalog *usecase.CatalogUseCase) func(context.Context, *entity.User) ([]Option, error) {
	return func(ctx context.Context, actor *entity.User) ([]Option, error) {
		cats, err := catalog.AllCategories(ctx, actor)
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(cats))
		for _, c := range cats {
			out = append(out, Option{Value: c.ID, Label: c.Name})
		}
		return out, nil
	}
}

func serviceOptions(catalog *usecase.CatalogUseCase) func(context.Context, *entity.User) ([]Option, error) {
	return func(ctx context.Context, actor *entity.User) ([]Option, error) {
		items, _, err := catalog.ListServices(ctx, actor, repository.ServiceFilter{})
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(items))
		for _, s := range items {
			out = append(out, Option{Value: s.ID, Label: s.Name})
		}
		return out, nil
	}
}

func blogCategoryOptions(blog *usecase.BlogUseCase) func(context.Context, *entity.User) ([]Option, error) {
	return func(ctx context.Context, _ *entity.User) ([]Option, error) {
		cats, err := blog.Categories(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(cats))
		for _, c := range cats {
			out = append(out, Option{Value: c.ID, Label: c.Name})
		}
		return out, nil
	}
}

// ---- formato de celdas ----

func yesNo(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

func fmtTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

func inputTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toPageRequest(p repository.Page) dto.PageRequest {
	pr := dto.PageRequest{Limit: p.Limit, Offset: p.Offset}
	pr.DefaultPage()
	return pr
}

// pageSlice pagina en memoria las listas cortas de contenido.
func pageSlice[T any](items []T, p repository.Page) []T {
	if p.Offset >= len(items) {
		return nil
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

func matches(search string, values ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), search) {
			return true
		}
	}
	return false
}

// ---- recursos ----

func usersResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "users", Label: "Utilisateur", LabelPlural: "Utilisateurs",
		Columns:    []string{"Nom d'utilisateur", "Email", "Nom", "Rôle", "Entreprise", "Actif", "Inscrit le"},
		FilterName: "role", FilterLabel: "Rôle", Filters: roleOptions(),
		Fields: []Field{
			{Name: "username", Label: "Nom d'utilisateur", Type: FieldText, Required: true},
			{Name: "email", Label: "Email", Type: FieldEmail, Required: true},
			{Name: "password", Label: "Mot de passe", Type: FieldPassword, Help: "Laisser vide pour ne pas modifier."},
			{Name: "first_name", Label: "Prénom", Type: FieldText},
			{Name: "last_name", Label: "Nom", Type: FieldText},
			{Name: "role", Label: "Rôle", Type: FieldSelect, Options: roleOptions(), Required: true},
			{Name: "phone", Label: "Téléphone", Type: FieldText},
			{Name: "company", Label: "Entreprise", Type: FieldText},
			{Name: "position", Label: "Poste", Type: FieldText},
			{Name: "is_verified", Label: "Vérifié", Type: FieldCheckbox},
			{Name: "is_active", Label: "Actif", Type: FieldCheckbox},
		},
		CanCreate: true, CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			items, total, err := d.Users.List(ctx, actor, repository.UserFilter{Role: entity.Role(q.Filter), Search: q.Search, Page: q.Page})
			if err != nil {
				return nil, err
			}
			res := &ListResult{Total: total}
			for _, u := range items {
				res.Rows = append(res.Rows, Row{ID: u.ID, Cells: []string{
					u.Username, u.Email, u.DisplayName(), u.Role.Label(), u.Company, yesNo(u.IsActive), fmtTime(&u.CreatedAt),
				}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			u, err := d.Users.GetByID(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"username": u.Username, "email": u.Email, "first_name": u.FirstName, "last_name": u.LastName,
				"role": string(u.Role), "phone": u.Phone, "company": u.Company, "position": u.Position,
				"is_verified": strconv.FormatBool(u.IsVerified), "is_active": strconv.FormatBool(u.IsActive),
			}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in dto.AdminUserRequest
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			u, err := d.Users.Save(ctx, actor, id, in)
			if err != nil {
				return "", err
			}
			return u.ID, nil
		},
		Delete: d.Users.Delete,
	}
}

func serviceCategoriesResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "service-categories", Label: "Catégorie de service", LabelPlural: "Catégories de services",
		Columns: []string{"Nom", "Slug", "Icône", "Ordre", "Active"},
		Fields: []Field{
			{Name: "name", Label: "Nom", Type: FieldText, Required: true},
			{Name: "slug", Label: "Slug", Type: FieldText, Help: "Généré depuis le nom si vide."},
			{Name: "description", Label: "Description", Type: FieldTextarea},
			{Name: "icon", Label: "Icône", Type: FieldText},
			{Name: "color", Label: "Couleur", Type: FieldText},
			{Name: "order", Label: "Ordre", Type: FieldNumber},
			{Name: "is_active", Label: "Active", Type: FieldCheckbox},
		},
		CanCreate: true, CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			cats, err := d.Catalog.AllCategories(ctx, actor)
			if err != nil {
				return nil, err
			}
			var filtered []*entity.ServiceCategory
			for _, c := range cats {
				if matches(q.Search, c.Name, c.Slug, c.Description) {
					filtered = append(filtered, c)
				}
			}
			res := &ListResult{Total: len(filtered)}
			for _, c := range pageSlice(filtered, q.Page) {
				res.Rows = append(res.Rows, Row{ID: c.ID, Cells: []string{c.Name, c.Slug, c.Icon, strconv.Itoa(c.Order), yesNo(c.IsActive)}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			c, err := d.Catalog.GetCategory(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"name": c.Name, "slug": c.Slug, "description": c.Description, "icon": c.Icon,
				"color": c.Color, "order": strconv.Itoa(c.Order), "is_active": strconv.FormatBool(c.IsActive),
			}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in dto.CategoryRequest
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			c, err := d.Catalog.SaveCategory(ctx, actor, id, in)
			if err != nil {
				return "", err
			}
			return c.ID, nil
		},
		Delete: d.Catalog.DeleteCategory,
	}
}

func servicesResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "services", Label: "Service", LabelPlural: "Services",
		Columns:    []string{"Nom", "Catégorie", "Prix à partir de", "Durée", "Statut", "En vedette", "Ordre"},
		FilterName: "status", FilterLabel: "Statut", Filters: serviceStatusOptions,
		Fields: []Field{
			{Name: "category_id", Label: "Catégorie", Type: FieldSelect, Load: serviceCategoryOptions(d.Catalog), Required: true},
			{Name: "name", Label: "Nom", Type: FieldText, Required: true},
			{Name: "slug", Label: "Slug", Type: FieldText, Help: "Généré depuis le nom si vide."},
			{Name: "short_description", Label: "Description courte", Type: FieldText, Required: true},
			{Name: "full_description", Label: "Description complète", Type: FieldTextarea, Required: true},
			{Name: "image", Label: "Image", Type: FieldText},
			{Name: "icon", Label: "Icône", Type: FieldText},
			{Name: "price_starting_from", Label: "Prix à partir de", Type: FieldText},
			{Name: "duration", Label: "Durée", Type: FieldText},
			{Name: "status", Label: "Statut", Type: FieldSelect, Options: serviceStatusOptions},
			{Name: "featured", Label: "En vedette", Type: FieldCheckbox},
			{Name: "order", Label: "Ordre", Type: FieldNumber},
		},
		CanCreate: true, CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			items, total, err := d.Catalog.ListServices(ctx, actor, repository.ServiceFilter{Status: q.Filter, Search: q.Search, Page: q.Page})
			if err != nil {
				return nil, err
			}
			res := &ListResult{Total: total}
			for _, s := range items {
				category, price := "", "-"
				if s.Category != nil {
					category = s.Category.Name
				}
				if s.PriceStartingFrom.Valid {
					price = s.PriceStartingFrom.Decimal.StringFixed(2)
				}
				res.Rows = append(res.Rows, Row{ID: s.ID, Cells: []string{
					s.Name, category, price, s.Duration, s.Status, yesNo(s.Featured), strconv.Itoa(s.Order),
				}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			s, err := d.Catalog.GetService(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			price := ""
			if s.PriceStartingFrom.Valid {
				price = s.PriceStartingFrom.Decimal.String()
			}
			return map[string]string{
				"category_id": s.CategoryID, "name": s.Name, "slug": s.Slug, "short_description": s.ShortDescription,
				"full_description": s.FullDescription, "image": s.Image, "icon": s.Icon, "price_starting_from": price,
				"duration": s.Duration, "status": s.Status, "featured": strconv.FormatBool(s.Featured), "order": strconv.Itoa(s.Order),
			}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in dto.ServiceRequestBody
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			s, err := d.Catalog.SaveService(ctx, actor, id, in)
			if err != nil {
				return "", err
			}
			return s.ID, nil
		},
		Delete: d.Catalog.DeleteService,
	}
}

// requestsResource las solicitudes las crean los clientes; el panel solo cambia
// estado, responsable, prioridad y fecha límite a través del flujo.
func requestsResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "service-requests", Label: "Demande de service", LabelPlural: "Demandes de services",
		Columns:    []string{"Titre", "Service", "Client", "Statut", "Priorité", "Assigné à", "Créée le"},
		FilterName: "status", FilterLabel: "Statut", Filters: requestStatusOptions(),
		Fields: []Field{
			{Name: "status", Label: "Statut", Type: FieldSelect, Options: requestStatusOptions()},
			{Name: "assigned_to", Label: "Assigné à", Type: FieldSelect, Load: staffOptions(d.Users)},
			{Name: "priority", Label: "Priorité", Type: FieldSelect, Options: priorityOptions()},
			{Name: "deadline", Label: "Date limite", Type: FieldDateTime},
		},
		CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			out, err := d.Requests.ListAll(ctx, actor, dto.RequestListQuery{Status: q.Filter, Search: q.Search, PageRequest: toPageRequest(q.Page)})
			if err != nil {
				return nil, err
			}
			res := &ListResult{Total: out.Page.Total}
			for _, r := range out.Items {
				res.Rows = append(res.Rows, Row{ID: r.ID, Cells: []string{
					r.Title, r.ServiceName, r.ClientUsername, r.StatusLabel, r.PriorityLabel, r.AssigneeUsername, fmtTime(&r.CreatedAt),
				}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			out, err := d.Requests.Get(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			r := out.Request
			return map[string]string{
				"status": r.Status, "assigned_to": deref(r.AssignedTo), "priority": r.Priority, "deadline": inputTime(r.Deadline),
			}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in dto.TransitionRequest
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			// un select vacío en el formulario significa quitar el responsable
			if in.AssignedTo == "" {
				in.Unassign = true
			}
			if in.Deadline == "" {
				in.ClearDeadline = true
			}
			r, err := d.Requests.Transition(ctx, actor, id, in)
			if err != nil {
				return "", err
			}
			return r.ID, nil
		},
		Delete: d.Requests.Delete,
	}
}

func deliverablesResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "deliverables", Label: "Livrable", LabelPlural: "Livrables",
		Columns: []string{"Nom", "Demande", "Fichier", "Taille", "Déposé par", "Déposé le"},
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			out, err := d.Deliverables.List(ctx, actor, toPageRequest(q.Page))
			if err != nil {
				return nil, err
			}
			res := &ListResult{Total: out.Page.Total}
			for _, x := range out.Items {
				if !matches(q.Search, x.Name, x.FileName, x.Request) {
					continue
				}
				res.Rows = append(res.Rows, Row{ID: x.ID, Cells: []string{
					x.Name, x.Request, x.FileName, strconv.FormatInt(x.Size, 10), x.UploadedBy, fmtTime(&x.UploadedAt),
				}})
			}
			return res, nil
		},
		Delete: d.Deliverables.Delete,
	}
}

func ticketsResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "tickets", Label: "Ticket", LabelPlural: "Tickets",
		Columns:    []string{"Sujet", "Utilisateur", "Statut", "Priorité", "Assigné à", "Créé le", "Résolu le"},
		FilterName: "status", FilterLabel: "Statut", Filters: ticketStatusOptions(),
		Fields: []Field{
			{Name: "status", Label: "Statut", Type: FieldSelect, Options: ticketStatusOptions()},
			{Name: "assigned_to", Label: "Assigné à", Type: FieldSelect, Load: staffOptions(d.Users)},
		},
		CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			out, err := d.Tickets.ListAll(ctx, actor, dto.TicketListQuery{Status: q.Filter, Search: q.Search, PageRequest: toPageRequest(q.Page)})
			if err != nil {
				return nil, err
			}
			res := &ListResult{Total: out.Page.Total}
			for _, t := range out.Items {
				res.Rows = append(res.Rows, Row{ID: t.ID, Cells: []string{
					t.Subject, t.Username, t.StatusLabel, entity.Priority(t.Priority).Label(), t.AssigneeUsername,
					fmtTime(&t.CreatedAt), fmtTime(t.ResolvedAt),
				}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			out, err := d.Tickets.Get(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{"status": out.Ticket.Status, "assigned_to": deref(out.Ticket.AssignedTo)}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in dto.TicketTransitionRequest
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			if in.AssignedTo == "" {
				in.Unassign = true
			}
			t, err := d.Tickets.Transition(ctx, actor, id, in)
			if err != nil {
				return "", err
			}
			return t.ID, nil
		},
		Delete: d.Tickets.Delete,
	}
}

func notificationsResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "notifications", Label: "Notification", LabelPlural: "Notifications",
		Columns: []string{"Titre", "Message", "Type", "Lue", "Créée le"},
		Fields: []Field{
			{Name: "user_id", Label: "Destinataire", Type: FieldSelect, Load: userOptions(d.Users), Required: true},
			{Name: "title", Label: "Titre", Type: FieldText, Required: true},
			{Name: "message", Label: "Message", Type: FieldTextarea, Required: true},
			{Name: "type", Label: "Type", Type: FieldSelect, Options: notificationTypeOptions, Required: true},
		},
		CanCreate: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			items, total, err := d.Notifications.ListAll(ctx, actor, toPageRequest(q.Page))
			if err != nil {
				return nil, err
			}
			res := &ListResult{Total: total}
			for _, n := range items {
				if !matches(q.Search, n.Title, n.Message) {
					continue
				}
				res.Rows = append(res.Rows, Row{ID: n.ID, Cells: []string{
					n.Title, n.Message, string(n.Type), yesNo(n.Read), fmtTime(&n.CreatedAt),
				}})
			}
			return res, nil
		},
		Save: func(ctx context.Context, actor *entity.User, _ string, bind func(any) error) (string, error) {
			var in dto.NotifyRequest
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			return d.Notifications.Notify(ctx, actor, in)
		},
		Delete: d.Notifications.Delete,
	}
}

func blogCategoriesResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "blog-categories", Label: "Catégorie du blog", LabelPlural: "Catégories du blog",
		Columns: []string{"Nom", "Slug", "Couleur", "Ordre"},
		Fields: []Field{
			{Name: "name", Label: "Nom", Type: FieldText, Required: true},
			{Name: "slug", Label: "Slug", Type: FieldText, Help: "Généré depuis le nom si vide."},
			{Name: "description", Label: "Description", Type: FieldTextarea},
			{Name: "color", Label: "Couleur", Type: FieldText},
			{Name: "order", Label: "Ordre", Type: FieldNumber},
		},
		CanCreate: true, CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			if err := policy.Admin(actor); err != nil {
				return nil, err
			}
			cats, err := d.Blog.Categories(ctx)
			if err != nil {
				return nil, err
			}
			var filtered []*entity.BlogCategory
			for _, c := range cats {
				if matches(q.Search, c.Name, c.Slug) {
					filtered = append(filtered, c)
				}
			}
			res := &ListResult{Total: len(filtered)}
			for _, c := range pageSlice(filtered, q.Page) {
				res.Rows = append(res.Rows, Row{ID: c.ID, Cells: []string{c.Name, c.Slug, c.Color, strconv.Itoa(c.Order)}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			c, err := d.Blog.GetCategory(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"name": c.Name, "slug": c.Slug, "description": c.Description, "color": c.Color, "order": strconv.Itoa(c.Order),
			}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in dto.BlogCategoryRequest
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			c, err := d.Blog.SaveCategory(ctx, actor, id, in)
			if err != nil {
				return "", err
			}
			return c.ID, nil
		},
		Delete: d.Blog.DeleteCategory,
	}
}

func articlesResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "articles", Label: "Article", LabelPlural: "Articles",
		Columns:    []string{"Titre", "Auteur", "Catégorie", "Statut", "En vedette", "Vues", "Publié le"},
		FilterName: "status", FilterLabel: "Statut", Filters: articleStatusOptions,
		Fields: []Field{
			{Name: "title", Label: "Titre", Type: FieldText, Required: true},
			{Name: "slug", Label: "Slug", Type: FieldText, Help: "Généré depuis le titre si vide."},
			{Name: "category_id", Label: "Catégorie", Type: FieldSelect, Load: blogCategoryOptions(d.Blog)},
			{Name: "excerpt", Label: "Extrait", Type: FieldTextarea, Required: true},
			{Name: "content", Label: "Contenu", Type: FieldTextarea, Required: true},
			{Name: "featured_image", Label: "Image", Type: FieldText},
			{Name: "status", Label: "Statut", Type: FieldSelect, Options: articleStatusOptions},
			{Name: "featured", Label: "En vedette", Type: FieldCheckbox},
		},
		CanCreate: true, CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			items, total, err := d.Blog.ListArticles(ctx, actor, repository.ArticleFilter{Status: q.Filter, Search: q.Search, Page: q.Page})
			if err != nil {
				return nil, err
			}
			res := &ListResult{Total: total}
			for _, a := range items {
				res.Rows = append(res.Rows, Row{ID: a.ID, Cells: []string{
					a.Title, a.AuthorUsername, a.CategoryName, a.Status, yesNo(a.Featured), strconv.Itoa(a.ViewsCount), fmtTime(a.PublishedAt),
				}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			a, err := d.Blog.GetArticle(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"title": a.Title, "slug": a.Slug, "category_id": deref(a.CategoryID), "excerpt": a.Excerpt,
				"content": a.Content, "featured_image": a.FeaturedImage, "status": a.Status, "featured": strconv.FormatBool(a.Featured),
			}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in dto.ArticleRequest
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			a, err := d.Blog.SaveArticle(ctx, actor, id, in)
			if err != nil {
				return "", err
			}
			return a.ID, nil
		},
		Delete: d.Blog.DeleteArticle,
	}
}

func sliderResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "slider", Label: "Diapositive", LabelPlural: "Carrousel",
		Columns: []string{"Titre", "Sous-titre", "Bouton", "Active", "Ordre"},
		Fields: []Field{
			{Name: "title", Label: "Titre", Type: FieldText, Required: true},
			{Name: "subtitle", Label: "Sous-titre", Type: FieldText},
			{Name: "description", Label: "Description", Type: FieldTextarea},
			{Name: "image", Label: "Image", Type: FieldText, Required: true},
			{Name: "button_text", Label: "Texte du bouton", Type: FieldText},
			{Name: "button_link", Label: "Lien du bouton", Type: FieldText},
			{Name: "active", Label: "Active", Type: FieldCheckbox},
			{Name: "order", Label: "Ordre", Type: FieldNumber},
		},
		CanCreate: true, CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			items, err := d.Content.AllSlides(ctx, actor)
			if err != nil {
				return nil, err
			}
			var filtered []*entity.SliderItem
			for _, s := range items {
				if matches(q.Search, s.Title, s.Subtitle) {
					filtered = append(filtered, s)
				}
			}
			res := &ListResult{Total: len(filtered)}
			for _, s := range pageSlice(filtered, q.Page) {
				res.Rows = append(res.Rows, Row{ID: s.ID, Cells: []string{s.Title, s.Subtitle, s.ButtonText, yesNo(s.Active), strconv.Itoa(s.Order)}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			s, err := d.Content.GetSlide(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"title": s.Title, "subtitle": s.Subtitle, "description": s.Description, "image": s.Image,
				"button_text": s.ButtonText, "button_link": s.ButtonLink, "active": strconv.FormatBool(s.Active), "order": strconv.Itoa(s.Order),
			}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in dto.SliderRequest
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			s, err := d.Content.SaveSlide(ctx, actor, id, in)
			if err != nil {
				return "", err
			}
			return s.ID, nil
		},
		Delete: d.Content.DeleteSlide,
	}
}

func teamResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "team", Label: "Membre de l'équipe", LabelPlural: "Équipe",
		Columns: []string{"Nom", "Poste", "Email", "Ordre"},
		Fields: []Field{
			{Name: "name", Label: "Nom", Type: FieldText, Required: true},
			{Name: "position", Label: "Poste", Type: FieldText, Required: true},
			{Name: "bio", Label: "Biographie", Type: FieldTextarea},
			{Name: "photo", Label: "Photo", Type: FieldText},
			{Name: "email", Label: "Email", Type: FieldEmail},
			{Name: "linkedin", Label: "LinkedIn", Type: FieldText},
			{Name: "order", Label: "Ordre", Type: FieldNumber},
		},
		CanCreate: true, CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			if err := policy.Admin(actor); err != nil {
				return nil, err
			}
			items, err := d.Content.Team(ctx)
			if err != nil {
				return nil, err
			}
			var filtered []*entity.TeamMember
			for _, m := range items {
				if matches(q.Search, m.Name, m.Position, m.Email) {
					filtered = append(filtered, m)
				}
			}
			res := &ListResult{Total: len(filtered)}
			for _, m := range pageSlice(filtered, q.Page) {
				res.Rows = append(res.Rows, Row{ID: m.ID, Cells: []string{m.Name, m.Position, m.Email, strconv.Itoa(m.Order)}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			m, err := d.Content.GetTeamMember(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"name": m.Name, "position": m.Position, "bio": m.Bio, "photo": m.Photo,
				"email": m.Email, "linkedin": m.LinkedIn, "order": strconv.Itoa(m.Order),
			}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in dto.TeamMemberRequest
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			m, err := d.Content.SaveTeamMember(ctx, actor, id, in)
			if err != nil {
				return "", err
			}
			return m.ID, nil
		},
		Delete: d.Content.DeleteTeamMember,
	}
}

func testimonialsResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "testimonials", Label: "Témoignage", LabelPlural: "Témoignages",
		Columns: []string{"Client", "Entreprise", "Note", "En vedette", "Ordre"},
		Fields: []Field{
			{Name: "client_name", Label: "Nom du client", Type: FieldText, Required: true},
			{Name: "client_position", Label: "Poste", Type: FieldText},
			{Name: "client_company", Label: "Entreprise", Type: FieldText},
			{Name: "client_avatar", Label: "Avatar", Type: FieldText},
			{Name: "content", Label: "Témoignage", Type: FieldTextarea, Required: true},
			{Name: "rating", Label: "Note (1-5)", Type: FieldNumber, Required: true},
			{Name: "service_id", Label: "Service", Type: FieldSelect, Load: serviceOptions(d.Catalog)},
			{Name: "featured", Label: "En vedette", Type: FieldCheckbox},
			{Name: "order", Label: "Ordre", Type: FieldNumber},
		},
		CanCreate: true, CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			items, err := d.Content.AllTestimonials(ctx, actor)
			if err != nil {
				return nil, err
			}
			var filtered []*entity.Testimonial
			for _, t := range items {
				if matches(q.Search, t.ClientName, t.ClientCompany, t.Content) {
					filtered = append(filtered, t)
				}
			}
			res := &ListResult{Total: len(filtered)}
			for _, t := range pageSlice(filtered, q.Page) {
				res.Rows = append(res.Rows, Row{ID: t.ID, Cells: []string{
					t.ClientName, t.ClientCompany, strconv.Itoa(t.Rating), yesNo(t.Featured), strconv.Itoa(t.Order),
				}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			t, err := d.Content.GetTestimonial(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"client_name": t.ClientName, "client_position": t.ClientPosition, "client_company": t.ClientCompany,
				"client_avatar": t.ClientAvatar, "content": t.Content, "rating": strconv.Itoa(t.Rating),
				"service_id": deref(t.ServiceID), "featured": strconv.FormatBool(t.Featured), "order": strconv.Itoa(t.Order),
			}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in dto.TestimonialRequest
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			t, err := d.Content.SaveTestimonial(ctx, actor, id, in)
			if err != nil {
				return "", err
			}
			return t.ID, nil
		},
		Delete: d.Content.DeleteTestimonial,
	}
}

func certificationsResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "certifications", Label: "Certification", LabelPlural: "Certifications",
		Columns: []string{"Nom", "Code", "Catégorie", "Ordre"},
		Fields: []Field{
			{Name: "name", Label: "Nom", Type: FieldText, Required: true},
			{Name: "code", Label: "Code", Type: FieldText, Required: true},
			{Name: "description", Label: "Description", Type: FieldTextarea},
			{Name: "image", Label: "Image", Type: FieldText},
			{Name: "category", Label: "Catégorie", Type: FieldText},
			{Name: "order", Label: "Ordre", Type: FieldNumber},
		},
		CanCreate: true, CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			if err := policy.Admin(actor); err != nil {
				return nil, err
			}
			items, err := d.Content.Certifications(ctx, 0)
			if err != nil {
				return nil, err
			}
			var filtered []*entity.Certification
			for _, c := range items {
				if matches(q.Search, c.Name, c.Code, c.Category) {
					filtered = append(filtered, c)
				}
			}
			sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Order < filtered[j].Order })
			res := &ListResult{Total: len(filtered)}
			for _, c := range pageSlice(filtered, q.Page) {
				res.Rows = append(res.Rows, Row{ID: c.ID, Cells: []string{c.Name, c.Code, c.Category, strconv.Itoa(c.Order)}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			c, err := d.Content.GetCertification(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"name": c.Name, "code": c.Code, "description": c.Description, "image": c.Image,
				"category": c.Category, "order": strconv.Itoa(c.Order),
			}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in dto.CertificationRequest
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			c, err := d.Content.SaveCertification(ctx, actor, id, in)
			if err != nil {
				return "", err
			}
			return c.ID, nil
		},
		Delete: d.Content.DeleteCertification,
	}
}

// contactStatusForm formulario de estado de un mensaje de contacto.
type contactStatusForm struct {
	Status string `form:"status"`
}

func contactResource(d RegistryDeps) *Resource {
	return &Resource{
		Name: "contact-messages", Label: "Message de contact", LabelPlural: "Messages de contact",
		Columns:    []string{"Nom", "Email", "Entreprise", "Sujet", "Statut", "Reçu le"},
		FilterName: "status", FilterLabel: "Statut", Filters: contactStatusOptions,
		Fields: []Field{
			{Name: "name", Label: "Nom", Type: FieldText},
			{Name: "email", Label: "Email", Type: FieldEmail},
			{Name: "subject", Label: "Sujet", Type: FieldText},
			{Name: "message", Label: "Message", Type: FieldTextarea},
			{Name: "status", Label: "Statut", Type: FieldSelect, Options: contactStatusOptions, Required: true},
		},
		CanEdit: true,
		List: func(ctx context.Context, actor *entity.User, q ListQuery) (*ListResult, error) {
			items, total, err := d.Contact.List(ctx, actor, dto.ContactListQuery{Status: q.Filter, Search: q.Search, PageRequest: toPageRequest(q.Page)})
			if err != nil {
				return nil, err
			}
			res := &ListResult{Total: total}
			for _, m := range items {
				res.Rows = append(res.Rows, Row{ID: m.ID, Cells: []string{
					m.Name, m.Email, m.Company, m.Subject, m.Status, fmtTime(&m.CreatedAt),
				}})
			}
			return res, nil
		},
		Get: func(ctx context.Context, actor *entity.User, id string) (map[string]string, error) {
			m, err := d.Contact.Get(ctx, actor, id)
			if err != nil {
				return nil, err
			}
			return map[string]string{
				"name": m.Name, "email": m.Email, "subject": m.Subject, "message": m.Message, "status": m.Status,
			}, nil
		},
		Save: func(ctx context.Context, actor *entity.User, id string, bind func(any) error) (string, error) {
			var in contactStatusForm
			if err := bind(&in); err != nil {
				return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
			}
			m, err := d.Contact.SetStatus(ctx, actor, id, in.Status)
			if err != nil {
				return "", err
			}
			return m.ID, nil
		},
		Delete: d.Contact.Delete,
	}
}
