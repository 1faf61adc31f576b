package customers

import (
	"context"
	"strings"

	pkgerrors "github.com/verdant-oils/storefront-backend/pkg/errors"
	"github.com/verdant-oils/storefront-backend/pkg/logger"
	"github.com/verdant-oils/storefront-backend/pkg/woocommerce"
)

// commerceClient is the slice of the commerce API this service needs.
type commerceClient interface {
	SearchCustomersByEmail(ctx context.Context, email string) ([]woocommerce.Customer, error)
	CreateCustomer(ctx context.Context, payload woocommerce.CustomerPayload) (*woocommerce.Customer, error)
	ListOrdersByCustomer(ctx context.Context, customerID int) ([]woocommerce.Order, error)
}

// Service resolves identities from login providers to backend customer
// records, creating the record on first login.
type Service interface {
	ResolveSocial(ctx context.Context, input SocialInput) (*Resolution, error)
	ResolvePhone(ctx context.Context, phone string) (*Resolution, error)
	Orders(ctx context.Context, customerID int) ([]woocommerce.Order, error)
}

// SocialInput carries the identity fields a social provider vouches for.
type SocialInput struct {
	Email     string
	Name      string
	AvatarURL string
}

// Resolution is a resolved login: the customer record and their order
// history, fetched together so the account view renders in one round.
type Resolution struct {
	Customer *woocommerce.Customer
	Orders   []woocommerce.Order
}

type service struct {
	client           commerceClient
	log              *logger.Logger
	guestEmailDomain string
}

// NewService builds the customer resolver. guestEmailDomain hosts the
// placeholder addresses minted for phone-only customers.
func NewService(client commerceClient, log *logger.Logger, guestEmailDomain string) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "commerce client required")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	domain := strings.TrimSpace(guestEmailDomain)
	if domain == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "guest email domain required")
	}
	return &service{client: client, log: log, guestEmailDomain: domain}, nil
}

func (s *service) ResolveSocial(ctx context.Context, input SocialInput) (*Resolution, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}

	customer, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, loginFailed(ctx, s.log, err)
	}
	if customer == nil {
		first, last := splitName(input.Name)
		customer, err = s.create(ctx, woocommerce.CustomerPayload{
			Email:     email,
			FirstName: first,
			LastName:  last,
			Username:  usernameFromEmail(email),
			AvatarURL: strings.TrimSpace(input.AvatarURL),
		})
		if err != nil {
			return nil, loginFailed(ctx, s.log, err)
		}
	}
	return s.finishResolution(ctx, customer)
}

func (s *service) ResolvePhone(ctx context.Context, phone string) (*Resolution, error) {
	digits := digitsOnly(phone)
	if len(digits) < 10 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "valid phone number required")
	}

	email := digits + "@" + s.guestEmailDomain
	customer, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, loginFailed(ctx, s.log, err)
	}
	if customer == nil {
		customer, err = s.create(ctx, woocommerce.CustomerPayload{
			Email:     email,
			FirstName: "Guest",
			LastName:  "User",
			Username:  usernameFromEmail(email),
			Billing:   &woocommerce.Address{Phone: digits},
		})
		if err != nil {
			return nil, loginFailed(ctx, s.log, err)
		}
	}
	return s.finishResolution(ctx, customer)
}

func (s *service) finishResolution(ctx context.Context, customer *woocommerce.Customer) (*Resolution, error) {
	orders, err := s.client.ListOrdersByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, loginFailed(ctx, s.log, err)
	}
	return &Resolution{Customer: customer, Orders: orders}, nil
}

// loginFailed collapses every backend failure during login into one
// uniform error; the caller never learns which step broke.
func loginFailed(ctx context.Context, log *logger.Logger, err error) error {
	log.Error(ctx, "login resolution failed", err)
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "login failed")
}

func (s *service) Orders(ctx context.Context, customerID int) ([]woocommerce.Order, error) {
	if customerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	orders, err := s.client.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}
	return orders, nil
}

// findByEmail returns the record whose email matches exactly, case
// insensitively. The search endpoint matches loosely, so the results
// are filtered rather than trusted.
func (s *service) findByEmail(ctx context.Context, email string) (*woocommerce.Customer, error) {
	matches, err := s.client.SearchCustomersByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search customers")
	}
	for i := range matches {
		if strings.EqualFold(strings.TrimSpace(matches[i].Email), email) {
			return &matches[i], nil
		}
	}
	return nil, nil
}

func (s *service) create(ctx context.Context, payload woocommerce.CustomerPayload) (*woocommerce.Customer, error) {
	customer, err := s.client.CreateCustomer(ctx, payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	if customer == nil || customer.ID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "customer record missing id")
	}
	s.log.Info(s.log.WithCustomerID(ctx, customer.ID), "customer created")
	return customer, nil
}

// splitName divides a display name into first and last. The first
// token is the first name and everything after it the last name.
func splitName(name string) (string, string) {
	fields := strings.Fields(strings.TrimSpace(name))
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

func usernameFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	return email[:at]
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
