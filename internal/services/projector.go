package services

import "github.com/franciscosanchezn/gin-menu-api/internal/models"

// projectMenu folds each link row and the catalog entity it wraps into a single item.
// Names come from the catalog, prices from the link.
func projectMenu(menu *models.Menu) *models.MenuView {
	view := &models.MenuView{
		ID:         menu.ID,
		Name:       menu.Name,
		ShopID:     menu.ShopID,
		Categories: make([]models.CategoryView, 0, len(menu.CategoryLinks)),
	}

	for _, cl := range menu.CategoryLinks {
		category := models.CategoryView{
			ID:       cl.Category.ID,
			Name:     cl.Category.Name,
			Products: make([]models.ProductView, 0, len(cl.ProductLinks)),
		}
		for _, pl := range cl.ProductLinks {
			product := models.ProductView{
				ID:          pl.Product.ID,
				Name:        pl.Product.Name,
				Description: pl.Product.Description,
				Price:       pl.Price,
				Options:     make([]models.OptionView, 0, len(pl.OptionLinks)),
			}
			for _, ol := range pl.OptionLinks {
				product.Options = append(product.Options, models.OptionView{
					ID:          ol.Option.ID,
					Name:        ol.Option.Name,
					Description: ol.Option.Description,
					Price:       ol.Price,
				})
			}
			category.Products = append(category.Products, product)
		}
		view.Categories = append(view.Categories, category)
	}

	return view
}
