package importer

import (
	"context"
	"strings"

	"bling-sync/core/database"
	"bling-sync/core/utils"
	"bling-sync/feature/bling"
	"bling-sync/feature/models"

	"gorm.io/gorm"
)

type personAdapter struct {
	entity[models.Person]
	im *Importer
}

func newPersonAdapter(im *Importer) *personAdapter {
	return &personAdapter{
		entity: entity[models.Person]{
			kind:     KindPerson,
			key:      func(p *models.Person) *uint { return &p.ID },
			original: func(p *models.Person) string { return p.IDOriginal },
		},
		im: im,
	}
}

// FindByNaturalKey matches on the document number, then on the RG.
func (a *personAdapter) FindByNaturalKey(ctx context.Context, tx *gorm.DB, p *models.Person) (*models.Person, error) {
	if p.DocumentNumber != nil {
		found, err := first[models.Person](tx.WithContext(ctx).Where("numero_documento = ?", *p.DocumentNumber))
		if err != nil || found != nil {
			return found, err
		}
	}
	if p.RG != nil {
		return first[models.Person](tx.WithContext(ctx).Where("rg = ?", *p.RG))
	}
	return nil, nil
}

func (a *personAdapter) Fetch(ctx context.Context, id string) (*models.Person, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c, err := a.im.api.GetContact(ctx, n)
	if err != nil {
		return nil, err
	}
	return a.im.mapPerson(c)
}

func (a *personAdapter) AdoptID(dst, existing *models.Person) {
	dst.ID = existing.ID
	dst.CreatedAt = existing.CreatedAt
}

func (a *personAdapter) ResetChildren(ctx context.Context, tx *gorm.DB, existing, p *models.Person) error {
	if err := tx.WithContext(ctx).Where("id_pessoa = ?", existing.ID).Delete(&models.Address{}).Error; err != nil {
		return err
	}
	for i := range p.Addresses {
		p.Addresses[i].ID = 0
		p.Addresses[i].PersonID = existing.ID
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func activeFlag(situation string) int16 {
	if situation == "A" {
		return 1
	}
	return 0
}

func (im *Importer) mapPerson(c *bling.Contact) (*models.Person, error) {
	p := &models.Person{
		IDOriginal:        utils.OriginalID(c.ID),
		Identifier:        utils.Truncate(c.Code, 50),
		Type:              models.PersonCompany,
		Name:              utils.Truncate(c.Name, 200),
		DocumentNumber:    optional(utils.Truncate(utils.Digits(c.DocumentNumber), 14)),
		TradeName:         utils.Truncate(c.TradeName, 200),
		StateRegIndicator: c.StateRegIndicator,
		StateRegistration: utils.Truncate(c.StateRegistration, 20),
		RG:                optional(utils.Truncate(c.RG, 30)),
		IssuingAgency:     utils.Truncate(c.IssuingAgency, 20),
		Email:             utils.Truncate(c.Email, 200),
		Status:            activeFlag(c.Situation),
	}

	if c.Type == models.PersonIndividual {
		born, err := utils.ParseDate(c.Extra.BirthDate, im.loc)
		if err != nil {
			return nil, err
		}
		p.Type = models.PersonIndividual
		p.BirthDate = born
		p.Sex = utils.Truncate(c.Extra.Sex, 1)
		p.Birthplace = utils.Truncate(c.Extra.Birthplace, 100)
	}

	// Addresses without city and state are incomplete in the ERP and skipped.
	addr := c.Address.General
	city, state := strings.TrimSpace(addr.City), strings.TrimSpace(addr.State)
	if city != "" && state != "" {
		p.Addresses = []models.Address{{
			Street:     utils.Truncate(addr.Street, 200),
			ZipCode:    utils.Truncate(utils.Digits(addr.ZipCode), 8),
			District:   utils.Truncate(addr.District, 50),
			City:       utils.Truncate(city, 150),
			State:      utils.Truncate(state, 2),
			Number:     utils.Truncate(addr.Number, 10),
			Complement: utils.Truncate(addr.Complement, 200),
		}}
	}
	return p, nil
}

// supplierFor returns the supplier row of the person behind contactID,
// creating both when needed.
func (im *Importer) supplierFor(ctx context.Context, contactID string) (*models.Supplier, error) {
	person, err := im.persons.Resolve(ctx, contactID)
	if err != nil || person == nil {
		return nil, err
	}

	var s models.Supplier
	q := im.db.WithContext(ctx).Where(models.Supplier{PersonID: person.ID})
	err = q.Attrs(models.Supplier{Status: 1}).FirstOrCreate(&s).Error
	if database.IsUniqueViolation(err) {
		err = im.db.WithContext(ctx).Where("id_pessoa = ?", person.ID).Take(&s).Error
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
