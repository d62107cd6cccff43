package importer

import (
	"context"

	"bling-sync/core/utils"
	"bling-sync/feature/models"
)

type productAdapter struct {
	entity[models.Product]
	im *Importer
}

func newProductAdapter(im *Importer) *productAdapter {
	return &productAdapter{
		entity: entity[models.Product]{
			kind:     KindProduct,
			key:      func(p *models.Product) *uint { return &p.ID },
			original: func(p *models.Product) string { return p.IDOriginal },
		},
		im: im,
	}
}

func (a *productAdapter) Fetch(ctx context.Context, id string) (*models.Product, error) {
	n, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := a.im.api.GetProduct(ctx, n)
	if err != nil {
		return nil, err
	}

	row := &models.Product{
		IDOriginal:       utils.OriginalID(p.ID),
		Identifier:       utils.Truncate(p.Code, 60),
		Description:      utils.Truncate(p.Name, 200),
		ShortDescription: p.ShortDescription,
		Status:           activeFlag(p.Situation),
		Format:           utils.Truncate(utils.FirstNonEmpty(p.Format, "S"), 1),
		Unit:             utils.Truncate(p.Unit, 6),
		GTIN:             utils.Truncate(p.GTIN, 14),
		PackageGTIN:      utils.Truncate(p.PackageGTIN, 14),
		Notes:            p.Notes,
		ImageURL:         p.ImageURL,
		Price:            p.Price,
	}

	if p.Supplier != nil {
		row.Cost = p.Supplier.CostPrice
		supplier, err := a.im.supplierFor(ctx, utils.OriginalID(p.Supplier.Contact.ID))
		if err != nil {
			return nil, err
		}
		row.SupplierID = refID(supplier, func(s *models.Supplier) uint { return s.ID })
	}

	ctx = enter(ctx, KindProduct, row.IDOriginal)
	if v := p.Variation; v != nil && v.Parent.ID != 0 {
		row.Variation = utils.Truncate(v.Name, 120)
		parentID := utils.OriginalID(v.Parent.ID)
		if !visiting(ctx, KindProduct, parentID) {
			parent, err := a.im.products.Resolve(ctx, parentID)
			if err != nil {
				return nil, err
			}
			row.ParentID = refID(parent, func(p *models.Product) uint { return p.ID })
		}
	}
	return row, nil
}
