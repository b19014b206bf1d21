package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dashazem/back-end-capstone-project/internal/auth"
	"github.com/Dashazem/back-end-capstone-project/internal/config"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/address"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/administrator"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/customer"
	"github.com/Dashazem/back-end-capstone-project/internal/datamodels/order"
)

func hashPassword(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newIdentityFixture() (*IdentityService, *fakeCustomerRepo, *fakeAdminRepo, *fakeAddressRepo, *fakeOrderRepo) {
	customers := newFakeCustomerRepo()
	admins := newFakeAdminRepo()
	addresses := newFakeAddressRepo()
	orders := newFakeOrderRepo()
	jwt := &config.JWTConfig{Secret: "test-secret"}
	svc := NewIdentityService(nil, customers, admins, addresses, orders, jwt)
	return svc, customers, admins, addresses, orders
}

func TestLoginCustomer(t *testing.T) {
	svc, customers, _, _, _ := newIdentityFixture()
	customers.Create(context.Background(), &customer.Customer{
		FirstName: "Dana", Surname: "Reid",
		Email: "dana@example.com", Password: hashPassword(t, "hunter2"),
	})

	result, err := svc.Login(context.Background(), "dana@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleCustomer, result.Role)
	assert.Equal(t, "Dana", result.FirstName)
	assert.NotEmpty(t, result.Token)

	claims, err := auth.ParseToken(&config.JWTConfig{Secret: "test-secret"}, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.ID, claims.UserID)
	assert.Equal(t, auth.RoleCustomer, claims.Role)
}

func TestLoginAdministratorFallback(t *testing.T) {
	svc, _, admins, _, _ := newIdentityFixture()
	admins.Create(context.Background(), &administrator.Administrator{
		FirstName: "Robin", Surname: "Shaw",
		Email: "robin@example.com", Password: hashPassword(t, "s3cret"),
	})

	result, err := svc.Login(context.Background(), "robin@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, result.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, customers, _, _, _ := newIdentityFixture()
	customers.Create(context.Background(), &customer.Customer{
		Email: "dana@example.com", Password: hashPassword(t, "hunter2"),
	})

	_, err := svc.Login(context.Background(), "dana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterCustomerValidation(t *testing.T) {
	svc, _, _, _, _ := newIdentityFixture()

	_, err := svc.RegisterCustomer(context.Background(), &RegisterCustomerRequest{
		FirstName: "Dana", Email: "dana@example.com", Password: "hunter2",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

// 重复邮箱在事务开始之前就被拦下
func TestRegisterCustomerDuplicateEmail(t *testing.T) {
	svc, customers, _, _, _ := newIdentityFixture()
	customers.Create(context.Background(), &customer.Customer{Email: "dana@example.com"})

	_, err := svc.RegisterCustomer(context.Background(), &RegisterCustomerRequest{
		FirstName: "Dana", Surname: "Reid",
		Email: "dana@example.com", Password: "hunter2",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegisterAdministratorDuplicateEmail(t *testing.T) {
	svc, _, admins, _, _ := newIdentityFixture()
	admins.Create(context.Background(), &administrator.Administrator{Email: "robin@example.com"})

	_, err := svc.RegisterAdministrator(context.Background(), "Robin", "Shaw", "robin@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestVerifyCustomerPassword(t *testing.T) {
	svc, customers, _, _, _ := newIdentityFixture()
	customers.Create(context.Background(), &customer.Customer{
		ID: 1, Email: "dana@example.com", Password: hashPassword(t, "hunter2"),
	})

	ok, err := svc.VerifyCustomerPassword(context.Background(), 1, "hunter2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyCustomerPassword(context.Background(), 1, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.VerifyCustomerPassword(context.Background(), 99, "hunter2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCustomerEmail(t *testing.T) {
	svc, customers, _, _, _ := newIdentityFixture()
	customers.Create(context.Background(), &customer.Customer{ID: 1, Email: "old@example.com"})

	require.NoError(t, svc.UpdateCustomerEmail(context.Background(), 1, "new@example.com"))
	c, err := customers.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", c.Email)

	assert.ErrorIs(t, svc.UpdateCustomerEmail(context.Background(), 1, ""), ErrValidation)
	assert.ErrorIs(t, svc.UpdateCustomerEmail(context.Background(), 99, "x@example.com"), ErrNotFound)
}

func TestUpdateCustomerPhone(t *testing.T) {
	svc, customers, _, _, _ := newIdentityFixture()
	customers.Create(context.Background(), &customer.Customer{ID: 1})
	customers.CreateContact(context.Background(), &customer.Contact{CustomerID: 1, PhoneNumber: "555-0101"})

	require.NoError(t, svc.UpdateCustomerPhone(context.Background(), 1, "555-0202"))
	ct, err := customers.GetContact(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "555-0202", ct.PhoneNumber)

	assert.ErrorIs(t, svc.UpdateCustomerPhone(context.Background(), 99, "555-0303"), ErrNotFound)
}

func TestGetCustomerIncludesContact(t *testing.T) {
	svc, customers, _, _, _ := newIdentityFixture()
	customers.Create(context.Background(), &customer.Customer{
		ID: 1, FirstName: "Dana", Surname: "Reid", Email: "dana@example.com",
	})
	customers.CreateContact(context.Background(), &customer.Contact{CustomerID: 1, PhoneNumber: "555-0101"})

	view, err := svc.GetCustomer(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Dana", view.FirstName)
	assert.Equal(t, "555-0101", view.Contact.PhoneNumber)

	_, err = svc.GetCustomer(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerOverview(t *testing.T) {
	svc, customers, _, addresses, orders := newIdentityFixture()
	customers.Create(context.Background(), &customer.Customer{
		ID: 1, FirstName: "Dana", Surname: "Reid", Email: "dana@example.com",
	})
	customers.CreateContact(context.Background(), &customer.Contact{CustomerID: 1, PhoneNumber: "555-0101"})
	addresses.Create(context.Background(), &address.Address{
		CustomerID: 1, StreetOne: "12 Elm St", City: "Halifax",
		Province: "NS", Country: "Canada", PostalCode: "B3H 1A1",
	})
	addresses.Create(context.Background(), &address.Address{
		CustomerID: 1, StreetOne: "9 Pine Ave", City: "Toronto",
		Province: "ON", Country: "Canada", PostalCode: "M5V 2T6",
	})
	orders.stats[1] = &order.CustomerStats{OrderCount: 4, TotalSpent: 230000}

	page, err := svc.CustomerOverview(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Customers, 1)

	entry := page.Customers[0]
	assert.Equal(t, "Dana Reid", entry.FullName)
	assert.Equal(t, "555-0101", entry.PhoneNumber)
	assert.Equal(t, int64(4), entry.OrderCount)
	assert.Equal(t, int64(230000), entry.TotalSpent)
	assert.Equal(t,
		"12 Elm St, , Halifax, NS, Canada, B3H 1A1<br />9 Pine Ave, , Toronto, ON, Canada, M5V 2T6",
		entry.Address)
	assert.Equal(t, int64(1), page.Total)
}
