package storefront

import (
	"context"

	"github.com/google/uuid"
	adminapp "github.com/storefront/backend/internal/application/admin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customerapp "github.com/storefront/backend/internal/application/customer"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// View names a storefront screen
type View string

const (
	ViewHome           View = "home"
	ViewProducts       View = "products"
	ViewCategories     View = "categories"
	ViewProduct        View = "product"
	ViewCart           View = "cart"
	ViewCheckout       View = "checkout"
	ViewLogin          View = "login"
	ViewProfile        View = "profile"
	ViewOrderSuccess   View = "order-success"
	ViewAdmin          View = "admin"
	ViewAdminDashboard View = "admin/dashboard"
	ViewAdminProducts  View = "admin/products"
	ViewAdminOrders    View = "admin/orders"
	ViewAdminUsers     View = "admin/users"
)

const featuredOnHome = 8

type access int

const (
	accessPublic access = iota
	accessUser
	accessAdmin
)

var views = map[View]access{
	ViewHome:           accessPublic,
	ViewProducts:       accessPublic,
	ViewCategories:     accessPublic,
	ViewProduct:        accessPublic,
	ViewLogin:          accessPublic,
	ViewCart:           accessUser,
	ViewCheckout:       accessUser,
	ViewProfile:        accessUser,
	ViewOrderSuccess:   accessUser,
	ViewAdmin:          accessAdmin,
	ViewAdminDashboard: accessAdmin,
	ViewAdminProducts:  accessAdmin,
	ViewAdminOrders:    accessAdmin,
	ViewAdminUsers:     accessAdmin,
}

// IsValid checks if the view is known
func (v View) IsValid() bool {
	_, ok := views[v]
	return ok
}

// Payload is the optional data carried by a navigation
type Payload struct {
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
	Search     string     `json:"search,omitempty" binding:"max=100"`
	Status     string     `json:"status,omitempty"`
	Role       string     `json:"role,omitempty"`
	Page       int        `json:"page,omitempty" binding:"omitempty,min=1"`
}

// Navigation asks for a view
type Navigation struct {
	View    View    `json:"view" binding:"required"`
	Payload Payload `json:"payload"`
}

// Screen is a resolved view with the data it renders
type Screen struct {
	View    View                  `json:"view"`
	Payload Payload               `json:"payload"`
	User    *Viewer               `json:"user"`
	Cart    *cartapp.CartResponse `json:"cart,omitempty"`
	Data    any                   `json:"data,omitempty"`
}

// HomeData is shown on the landing page
type HomeData struct {
	Featured   []catalogapp.ProductResponse  `json:"featured"`
	Categories []catalogapp.CategoryResponse `json:"categories"`
}

// ProductsData is a product listing, optionally within one category
type ProductsData struct {
	Products shared.Paginated[catalogapp.ProductResponse] `json:"products"`
	Category *catalogapp.CategoryResponse                 `json:"category,omitempty"`
}

// CheckoutData is the cart with the addresses the shopper can ship to
type CheckoutData struct {
	Cart      cartapp.CartResponse          `json:"cart"`
	Addresses []customerapp.AddressResponse `json:"addresses"`
}

// ProfileData is the account page
type ProfileData struct {
	Profile   *identityapp.ProfileResponse  `json:"profile"`
	Orders    []orderapp.OrderResponse      `json:"orders"`
	Addresses []customerapp.AddressResponse `json:"addresses"`
}

// ProductReader is the public catalog
type ProductReader interface {
	List(ctx context.Context, filter catalogapp.ProductListFilter) (shared.Paginated[catalogapp.ProductResponse], error)
	ListAll(ctx context.Context, filter catalogapp.ProductListFilter) (shared.Paginated[catalogapp.ProductResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
}

type CategoryReader interface {
	List(ctx context.Context, includeInactive bool) ([]catalogapp.CategoryResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*catalogapp.CategoryResponse, error)
}

type AddressReader interface {
	List(ctx context.Context, userID uuid.UUID) ([]customerapp.AddressResponse, error)
}

type ProfileReader interface {
	Me(ctx context.Context, userID uuid.UUID) (*identityapp.ProfileResponse, error)
}

// BackOffice serves the admin views
type BackOffice interface {
	Dashboard(ctx context.Context) (*adminapp.DashboardResponse, error)
	Orders(ctx context.Context, f adminapp.OrderListFilter) (*adminapp.OrderListResponse, error)
}

type UserDirectory interface {
	List(ctx context.Context, f identityapp.UserListFilter) (*identityapp.UserListResponse, error)
}

// Sources are the read models the navigator renders from
type Sources struct {
	Products   ProductReader
	Categories CategoryReader
	Addresses  AddressReader
	Profiles   ProfileReader
	BackOffice BackOffice
	Users      UserDirectory
}

// Navigator is the view selector: it checks a navigation against the
// session and loads the data for the target view
type Navigator struct {
	src Sources
}

// NewNavigator creates a navigator over the given read sources
func NewNavigator(src Sources) *Navigator {
	return &Navigator{src: src}
}

// Navigate resolves a view. Views needing a user fail with AuthRequired
// for anonymous sessions, admin views fail with Forbidden for customers,
// and views missing their payload fail validation.
func (n *Navigator) Navigate(ctx context.Context, sess *Session, nav Navigation) (*Screen, error) {
	if err := n.authorize(sess, nav); err != nil {
		return nil, err
	}

	data, err := n.load(ctx, sess, nav)
	if err != nil {
		return nil, err
	}
	screen := &Screen{View: nav.View, Payload: nav.Payload, User: sess.User(), Data: data}
	if sess.IsAuthenticated() {
		c := sess.Cart()
		screen.Cart = &c
	}
	return screen, nil
}

func (n *Navigator) authorize(sess *Session, nav Navigation) error {
	level, ok := views[nav.View]
	if !ok {
		return shared.NewValidationError("Unknown view: %q", nav.View)
	}
	switch level {
	case accessUser:
		if !sess.IsAuthenticated() {
			return shared.ErrAuthRequired
		}
	case accessAdmin:
		if !sess.IsAuthenticated() {
			return shared.ErrAuthRequired
		}
		if !sess.User().IsAdmin() {
			return shared.ErrForbidden
		}
	}

	switch nav.View {
	case ViewProduct:
		if nav.Payload.ProductID == nil {
			return shared.NewValidationError("A product must be selected")
		}
	case ViewOrderSuccess:
		if nav.Payload.OrderID == nil {
			return shared.NewValidationError("An order must be selected")
		}
	}
	return nil
}

func (n *Navigator) load(ctx context.Context, sess *Session, nav Navigation) (any, error) {
	p := nav.Payload
	if sess.IsAuthenticated() {
		if err := sess.loadCart(ctx); err != nil {
			return nil, err
		}
	}

	switch nav.View {
	case ViewHome:
		featured := true
		products, err := n.src.Products.List(ctx, catalogapp.ProductListFilter{Featured: &featured, Page: 1, PageSize: featuredOnHome})
		if err != nil {
			return nil, err
		}
		categories, err := n.src.Categories.List(ctx, false)
		if err != nil {
			return nil, err
		}
		return HomeData{Featured: products.Items, Categories: categories}, nil

	case ViewProducts:
		products, err := n.src.Products.List(ctx, catalogapp.ProductListFilter{
			Search:     p.Search,
			CategoryID: p.CategoryID,
			Page:       max(p.Page, 1),
		})
		if err != nil {
			return nil, err
		}
		data := ProductsData{Products: products}
		if p.CategoryID != nil {
			if data.Category, err = n.src.Categories.Get(ctx, *p.CategoryID); err != nil {
				return nil, err
			}
		}
		return data, nil

	case ViewCategories:
		return n.src.Categories.List(ctx, false)

	case ViewProduct:
		return n.src.Products.Get(ctx, *p.ProductID)

	case ViewCart:
		return sess.Cart(), nil

	case ViewCheckout:
		addresses, err := n.src.Addresses.List(ctx, sess.User().ID)
		if err != nil {
			return nil, err
		}
		return CheckoutData{Cart: sess.Cart(), Addresses: addresses}, nil

	case ViewLogin:
		return nil, nil

	case ViewProfile:
		profile, err := n.src.Profiles.Me(ctx, sess.User().ID)
		if err != nil {
			return nil, err
		}
		if err := sess.loadOrders(ctx); err != nil {
			return nil, err
		}
		addresses, err := n.src.Addresses.List(ctx, sess.User().ID)
		if err != nil {
			return nil, err
		}
		return ProfileData{Profile: profile, Orders: sess.Orders(), Addresses: addresses}, nil

	case ViewOrderSuccess:
		o, err := sess.ordering.Get(ctx, sess.User().ID, *p.OrderID)
		if err != nil {
			return nil, err
		}
		sess.replaceOrder(*o)
		return o, nil

	case ViewAdmin, ViewAdminDashboard:
		return n.src.BackOffice.Dashboard(ctx)

	case ViewAdminProducts:
		return n.src.Products.ListAll(ctx, catalogapp.ProductListFilter{
			Search:     p.Search,
			CategoryID: p.CategoryID,
			Page:       max(p.Page, 1),
		})

	case ViewAdminOrders:
		return n.src.BackOffice.Orders(ctx, adminapp.OrderListFilter{Search: p.Search, Status: p.Status, Page: p.Page})

	case ViewAdminUsers:
		return n.src.Users.List(ctx, identityapp.UserListFilter{Search: p.Search, Role: p.Role, Page: p.Page})
	}
	return nil, shared.NewValidationError("Unknown view: %q", nav.View)
}
