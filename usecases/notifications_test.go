package usecases

import (
	"testing"
	"time"

	"splitmate-server/apperrors"
	"splitmate-server/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type notificationsFixture struct {
	uc            *NotificationsUseCase
	notifications *fakeNotificationRepo
	houses        *fakeHouseRepo
	users         *fakeUserRepo
	bills         *fakeTenantBillRepo
}

func newNotificationsFixture() *notificationsFixture {
	f := &notificationsFixture{
		notifications: newFakeNotificationRepo(),
		houses:        newFakeHouseRepo(),
		users:         newFakeUserRepo(),
		bills:         newFakeTenantBillRepo(),
	}
	f.uc = NewNotificationsUseCase(f.notifications, f.houses, f.users, f.bills)
	return f
}

func (f *notificationsFixture) seedUsers(t *testing.T) (principal, bob, carol entities.User) {
	t.Helper()
	principal = entities.User{Name: "Ana", Email: "ana@example.com", Role: entities.RolePrincipal, HouseID: "house-1"}
	bob = entities.User{Name: "Bob", Email: "bob@example.com", Role: entities.RoleRegular, HouseID: "house-1"}
	carol = entities.User{Name: "Carol", Email: "carol@example.com", Role: entities.RoleRegular, HouseID: "house-1"}
	require.NoError(t, f.users.Create(&principal))
	require.NoError(t, f.users.Create(&bob))
	require.NoError(t, f.users.Create(&carol))
	require.NoError(t, f.houses.Create(&entities.House{ID: "house-1", Name: "Elm Street", PrincipalID: principal.ID}))
	return principal, bob, carol
}

func TestSendManual(t *testing.T) {
	f := newNotificationsFixture()
	principal, bob, _ := f.seedUsers(t)

	t.Run("principal sends an info notification", func(t *testing.T) {
		n, err := f.uc.SendManual(principal.ID, bob.ID, "March bill is due")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, n.RecipientID)
		assert.Equal(t, principal.ID, n.SenderID)
		assert.Equal(t, entities.NotificationTypeInfo, n.Type)
		assert.Equal(t, entities.NotificationStatusUnread, n.Status)
	})

	t.Run("regular tenant may not send", func(t *testing.T) {
		_, err := f.uc.SendManual(bob.ID, principal.ID, "pay me back")
		assert.ErrorIs(t, err, apperrors.ErrAuthorization)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := f.uc.SendManual(principal.ID, "no-such-user", "hello")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		_, err := f.uc.SendManual(principal.ID, bob.ID, "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestListMarkReadDismiss(t *testing.T) {
	f := newNotificationsFixture()
	principal, bob, _ := f.seedUsers(t)

	first, err := f.uc.SendManual(principal.ID, bob.ID, "first")
	require.NoError(t, err)
	second, err := f.uc.SendManual(principal.ID, bob.ID, "second")
	require.NoError(t, err)

	t.Run("list is newest first", func(t *testing.T) {
		list, err := f.uc.ListFor(bob.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)
	})

	t.Run("only the recipient may mutate", func(t *testing.T) {
		assert.ErrorIs(t, f.uc.MarkRead(principal.ID, first.ID), apperrors.ErrAuthorization)
		assert.ErrorIs(t, f.uc.Dismiss(principal.ID, first.ID), apperrors.ErrAuthorization)

		n, err := f.notifications.GetByID(first.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.NotificationStatusUnread, n.Status)
	})

	t.Run("mark read flips status only", func(t *testing.T) {
		require.NoError(t, f.uc.MarkRead(bob.ID, first.ID))
		n, err := f.notifications.GetByID(first.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.NotificationStatusRead, n.Status)
		assert.Equal(t, "first", n.Message)
	})

	t.Run("dismiss removes permanently", func(t *testing.T) {
		require.NoError(t, f.uc.Dismiss(bob.ID, first.ID))
		_, err := f.notifications.GetByID(first.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		assert.ErrorIs(t, f.uc.Dismiss(bob.ID, first.ID), apperrors.ErrNotFound)

		list, err := f.uc.ListFor(bob.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestRemindableTenants(t *testing.T) {
	f := newNotificationsFixture()
	principal, bob, carol := f.seedUsers(t)

	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	key := period.Format(time.RFC3339)

	t.Run("everyone but the principal starts remindable", func(t *testing.T) {
		remindable, err := f.uc.RemindableTenants(principal.ID, "house-1", period)
		require.NoError(t, err)
		assert.Len(t, remindable, 2)
	})

	t.Run("only the house's principal sees the list", func(t *testing.T) {
		_, err := f.uc.RemindableTenants(bob.ID, "house-1", period)
		assert.ErrorIs(t, err, apperrors.ErrAuthorization)

		other := entities.User{Name: "Dan", Email: "dan@example.com", Role: entities.RolePrincipal}
		require.NoError(t, f.users.Create(&other))
		_, err = f.uc.RemindableTenants(other.ID, "house-1", period)
		assert.ErrorIs(t, err, apperrors.ErrAuthorization)
	})

	t.Run("a paid tenant drops out", func(t *testing.T) {
		require.NoError(t, f.bills.Create(&entities.TenantBill{
			TenantID:    bob.ID,
			HouseID:     "house-1",
			PeriodStart: key,
			Status:      entities.BillStatusPaid,
		}))

		remindable, err := f.uc.RemindableTenants(principal.ID, "house-1", period)
		require.NoError(t, err)
		require.Len(t, remindable, 1)
		assert.Equal(t, carol.ID, remindable[0].ID)
	})

	t.Run("a pending row still counts", func(t *testing.T) {
		require.NoError(t, f.bills.Create(&entities.TenantBill{
			TenantID:    carol.ID,
			HouseID:     "house-1",
			PeriodStart: key,
			Status:      entities.BillStatusPending,
		}))

		remindable, err := f.uc.RemindableTenants(principal.ID, "house-1", period)
		require.NoError(t, err)
		require.Len(t, remindable, 1)
		assert.Equal(t, carol.ID, remindable[0].ID)
	})
}
