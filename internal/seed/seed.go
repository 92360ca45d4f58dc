package seed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/onboarding"
)

// CitySeeder stores reference cities.
type CitySeeder interface {
	Seed(ctx context.Context, cities []domain.City) error
}

var provinces = []string{
	"Adana", "Adiyaman", "Afyonkarahisar", "Agri", "Amasya", "Ankara", "Antalya", "Artvin", "Aydin",
	"Balikesir", "Bilecik", "Bingol", "Bitlis", "Bolu", "Burdur", "Bursa", "Canakkale", "Cankiri",
	"Corum", "Denizli", "Diyarbakir", "Edirne", "Elazig", "Erzincan", "Erzurum", "Eskisehir",
	"Gaziantep", "Giresun", "Gumushane", "Hakkari", "Hatay", "Isparta", "Mersin", "Istanbul", "Izmir",
	"Kars", "Kastamonu", "Kayseri", "Kirklareli", "Kirsehir", "Kocaeli", "Konya", "Kutahya", "Malatya",
	"Manisa", "Kahramanmaras", "Mardin", "Mugla", "Mus", "Nevsehir", "Nigde", "Ordu", "Rize", "Sakarya",
	"Samsun", "Siirt", "Sinop", "Sivas", "Tekirdag", "Tokat", "Trabzon", "Tunceli", "Sanliurfa", "Usak",
	"Van", "Yozgat", "Zonguldak", "Aksaray", "Bayburt", "Karaman", "Kirikkale", "Batman", "Sirnak",
	"Bartin", "Ardahan", "Igdir", "Yalova", "Karabuk", "Kilis", "Osmaniye", "Duzce",
}

// Cities returns the reference city list keyed by plate code.
func Cities() []domain.City {
	out := make([]domain.City, len(provinces))
	for i, name := range provinces {
		out[i] = domain.City{ID: strconv.Itoa(i + 1), Name: name}
	}
	return out
}

// Apply inserts the reference cities. It is idempotent.
func Apply(ctx context.Context, svc CitySeeder) error {
	if err := svc.Seed(ctx, Cities()); err != nil {
		return fmt.Errorf("seed cities: %w", err)
	}
	return nil
}

// Demo creates n fake customers through the create wizard, each with one to three
// addresses. Customers that fail are logged and skipped. It returns how many were created.
func Demo(ctx context.Context, newCreator func() *onboarding.Creator, n int, seed uint64, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := gofakeit.New(seed)
	cities := Cities()
	now := time.Now()

	created := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		c := newCreator()
		for field, v := range fakeValues(f, now) {
			if err := c.SetField(field, v); err != nil {
				return created, err
			}
		}
		for j, count := 0, f.IntRange(1, 3); j < count; j++ {
			city := cities[f.IntRange(0, len(cities)-1)]
			_, err := c.Addresses().Add(ctx, onboarding.AddressInput{
				Title:       f.RandomString([]string{"Home", "Work", "Summer house", "Parents"}),
				CityID:      city.ID,
				Street:      f.Street(),
				HouseNumber: f.StreetNumber(),
				Description: f.Sentence(4),
				IsDefault:   f.Bool(),
			})
			if err != nil {
				return created, fmt.Errorf("draft address: %w", err)
			}
		}

		out, err := c.Submit(ctx)
		if err == nil {
			err = out.Err()
		}
		if err != nil {
			logger.Warn("demo customer skipped", zap.Int("index", i), zap.Error(err))
			continue
		}
		created++
	}
	return created, nil
}

func fakeValues(f *gofakeit.Faker, now time.Time) onboarding.Values {
	birth := f.DateRange(now.AddDate(-80, 0, 0), now.AddDate(-19, 0, 0))
	return onboarding.Values{
		onboarding.FieldFirstName:     f.FirstName(),
		onboarding.FieldLastName:      f.LastName(),
		onboarding.FieldGender:        f.RandomString([]string{"female", "male", "other"}),
		onboarding.FieldBirthDate:     birth.Format(domain.FormDateLayout),
		onboarding.FieldMotherName:    f.FirstName(),
		onboarding.FieldFatherName:    f.FirstName(),
		onboarding.FieldNationalityID: NationalID(f),
		onboarding.FieldEmail:         f.Email(),
		onboarding.FieldMobilePhone:   "5" + f.Numerify("#########"),
	}
}

// NationalID returns a random national identifier with valid check digits.
func NationalID(f *gofakeit.Faker) string {
	var d [11]int
	d[0] = f.IntRange(1, 9)
	for i := 1; i < 9; i++ {
		d[i] = f.IntRange(0, 9)
	}
	odd := d[0] + d[2] + d[4] + d[6] + d[8]
	even := d[1] + d[3] + d[5] + d[7]
	d[9] = ((odd*7-even)%10 + 10) % 10
	sum := 0
	for i := 0; i < 10; i++ {
		sum += d[i]
	}
	d[10] = sum % 10

	b := make([]byte, 11)
	for i, v := range d {
		b[i] = byte('0' + v)
	}
	return string(b)
}
