package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thaisrestaurant/orderdesk-api/internal/domain/entity"
)

// fakeUserRepo is an in-memory UserRepository keyed by email
type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if _, ok := r.users[user.Email]; ok {
		return errors.New("duplicate email")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.Email] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	if _, ok := r.users[user.Email]; !ok {
		return errors.New("user not found")
	}
	copied := *user
	r.users[user.Email] = &copied
	return nil
}

// fakeLoginTokenRepo is an in-memory LoginTokenRepository keyed by token
type fakeLoginTokenRepo struct {
	tokens map[string]*entity.LoginToken
}

func newFakeLoginTokenRepo() *fakeLoginTokenRepo {
	return &fakeLoginTokenRepo{tokens: make(map[string]*entity.LoginToken)}
}

func (r *fakeLoginTokenRepo) Create(ctx context.Context, token *entity.LoginToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	copied := *token
	r.tokens[token.Token] = &copied
	return nil
}

func (r *fakeLoginTokenRepo) GetByToken(ctx context.Context, token string) (*entity.LoginToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *fakeLoginTokenRepo) MarkAsUsed(ctx context.Context, token string) error {
	t, ok := r.tokens[token]
	if !ok {
		return errors.New("token not found")
	}
	t.Used = true
	return nil
}

func (r *fakeLoginTokenRepo) DeleteByEmail(ctx context.Context, email string) error {
	for k, t := range r.tokens {
		if t.Email == email {
			delete(r.tokens, k)
		}
	}
	return nil
}

// fakeOrderRepo is an in-memory OrderRepository preserving insertion order
type fakeOrderRepo struct {
	orders []entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	for i := range r.orders {
		if r.orders[i].OrderID == order.OrderID {
			return errors.New("duplicate order_id")
		}
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders = append(r.orders, *order)
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	for i := range r.orders {
		if r.orders[i].ID == id {
			copied := r.orders[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Order, error) {
	for i := range r.orders {
		if r.orders[i].OrderID == orderID {
			copied := r.orders[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) ListAll(ctx context.Context) ([]entity.Order, error) {
	out := make([]entity.Order, len(r.orders))
	copy(out, r.orders)
	return out, nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			return nil
		}
	}
	return errors.New("order not found")
}

// fakeMailer records magic-link sends instead of talking to SMTP
type fakeMailer struct {
	sends []sentMail
	err   error
}

type sentMail struct {
	email string
	token string
}

func (m *fakeMailer) SendMagicLinkEmail(toEmail, token string) error {
	if m.err != nil {
		return m.err
	}
	m.sends = append(m.sends, sentMail{email: toEmail, token: token})
	return nil
}
