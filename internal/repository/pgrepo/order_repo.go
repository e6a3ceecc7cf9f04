package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/pkg/uow"
)

const orderColumns = `id, created_at, updated_at, user_id, status, total_price, order_date`

type OrderRepository struct {
	conn uow.DBTX
}

func NewOrderRepository(conn uow.DBTX) *OrderRepository {
	return &OrderRepository{conn: conn}
}

// CreateCart создает пустую корзину юзера. Частичный уникальный индекс
// не дает завести вторую корзину: конкурентная вставка вернет
// domain.ErrDuplicateKey и вызывающий перечитает существующую.
func (o *OrderRepository) CreateCart(ctx context.Context, userID int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total_price, order_date)
		VALUES ($1, $2, 0, now())
		RETURNING `+orderColumns,
		userID, domain.OrderStatusCart,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating cart for user `%d`", userID)
	}
	order.Items = []domain.OrderItem{}
	return order, nil
}

// FindCartByUserID возвращает открытую корзину юзера вместе с позициями.
func (o *OrderRepository) FindCartByUserID(ctx context.Context, userID int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 AND status = $2`,
		userID, domain.OrderStatusCart,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding cart for user `%d`", userID)
	}
	if loadErr := o.loadItems(ctx, []*domain.Order{order}); loadErr != nil {
		return nil, loadErr
	}
	return order, nil
}

func (o *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order `%d`", id)
	}
	if loadErr := o.loadItems(ctx, []*domain.Order{order}); loadErr != nil {
		return nil, loadErr
	}
	return order, nil
}

// UpsertItem добавляет позицию в заказ. Если позиция с таким аккаунтом уже
// есть - количество суммируется, а строка переоценивается по текущей цене.
func (o *OrderRepository) UpsertItem(ctx context.Context, args repoargs.UpsertOrderItem) (*domain.OrderItem, error) {
	row := o.conn.QueryRow(ctx, `
		INSERT INTO order_items (order_id, account_id, quantity, sub_price)
		VALUES ($1, $2, $3, $3 * $4)
		ON CONFLICT (order_id, account_id) DO UPDATE
		SET quantity  = order_items.quantity + EXCLUDED.quantity,
		    sub_price = (order_items.quantity + EXCLUDED.quantity) * $4
		RETURNING id, order_id, account_id, quantity, sub_price`,
		args.OrderID, args.AccountID, args.Quantity, args.Price,
	)

	var item domain.OrderItem
	err := row.Scan(&item.ID, &item.OrderID, &item.AccountID, &item.Quantity, &item.SubPrice)
	if err != nil {
		return nil, convertErr(err, "upserting item for order `%d`", args.OrderID)
	}
	return &item, nil
}

// RecalcTotal пересчитывает итоговую стоимость заказа как сумму стоимостей
// его позиций. Инвариант total == SUM(sub_price) поддерживается только здесь.
func (o *OrderRepository) RecalcTotal(ctx context.Context, orderID int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `
		UPDATE orders
		SET total_price = COALESCE((SELECT SUM(sub_price) FROM order_items WHERE order_id = $1), 0),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns,
		orderID,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "recalculating total for order `%d`", orderID)
	}
	return order, nil
}

// Checkout переводит корзину в статус pending. Обновление условное: заказ
// должен принадлежать юзеру и находиться в статусе cart, иначе
// domain.ErrRecordNotFound.
func (o *OrderRepository) Checkout(ctx context.Context, orderID, userID int64) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `
		UPDATE orders SET status = $1, order_date = now(), updated_at = now()
		WHERE id = $2 AND user_id = $3 AND status = $4
		RETURNING `+orderColumns,
		domain.OrderStatusPending, orderID, userID, domain.OrderStatusCart,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "checking out order `%d`", orderID)
	}
	return order, nil
}

func (o *OrderRepository) UpdateStatus(ctx context.Context, args repoargs.UpdateOrderStatus) (*domain.Order, error) {
	row := o.conn.QueryRow(ctx, `
		UPDATE orders SET status = $1, order_date = now(), updated_at = now()
		WHERE id = $2
		RETURNING `+orderColumns,
		args.Status, args.OrderID,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "updating status for order `%d`", args.OrderID)
	}
	return order, nil
}

// GetByUserID возвращает заказы юзера с позициями, новые сверху.
func (o *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	return o.getOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// GetAll возвращает все заказы с позициями, новые сверху.
func (o *OrderRepository) GetAll(ctx context.Context) ([]domain.Order, error) {
	return o.getOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// CreateCredentials создает реквизиты доставки батч-запросом.
func (o *OrderRepository) CreateCredentials(ctx context.Context, creds []repoargs.CreateDeliveryCredential) error {
	if len(creds) == 0 {
		return nil
	}
	batch := new(pgx.Batch)
	for _, cred := range creds {
		batch.Queue(
			`INSERT INTO delivery_credentials (order_item_id, email, password) VALUES ($1, $2, $3)`,
			cred.OrderItemID, cred.Email, cred.Password,
		)
	}
	results := o.conn.SendBatch(ctx, batch)
	defer results.Close() //nolint:errcheck

	for i := range creds {
		if _, err := results.Exec(); err != nil {
			return convertErr(err, "creating credential for order item `%d`", creds[i].OrderItemID)
		}
	}
	return nil
}

// GetItemsByUserID возвращает плоский список позиций всех заказов юзера.
func (o *OrderRepository) GetItemsByUserID(ctx context.Context, userID int64) ([]domain.OrderItem, error) {
	return o.getItems(ctx, `
		SELECT oi.id, oi.order_id, oi.account_id, oi.quantity, oi.sub_price,
		       p.name, a.specification, u.username
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN users u ON u.id = o.user_id
		JOIN accounts a ON a.id = oi.account_id
		JOIN products p ON p.id = a.product_id
		WHERE o.user_id = $1
		ORDER BY oi.id`, userID)
}

// GetAllItems возвращает плоский список позиций всех заказов.
func (o *OrderRepository) GetAllItems(ctx context.Context) ([]domain.OrderItem, error) {
	return o.getItems(ctx, `
		SELECT oi.id, oi.order_id, oi.account_id, oi.quantity, oi.sub_price,
		       p.name, a.specification, u.username
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN users u ON u.id = o.user_id
		JOIN accounts a ON a.id = oi.account_id
		JOIN products p ON p.id = a.product_id
		ORDER BY oi.id`)
}

func (o *OrderRepository) getOrders(ctx context.Context, query string, queryArgs ...any) ([]domain.Order, error) {
	rows, err := o.conn.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, convertErr(err, "getting orders")
	}
	defer rows.Close()

	var orders []domain.Order
	var refs []*domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning order")
		}
		orders = append(orders, *order)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting orders")
	}
	for i := range orders {
		refs = append(refs, &orders[i])
	}
	if loadErr := o.loadItems(ctx, refs); loadErr != nil {
		return nil, loadErr
	}
	return orders, nil
}

func (o *OrderRepository) getItems(ctx context.Context, query string, queryArgs ...any) ([]domain.OrderItem, error) {
	rows, err := o.conn.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, convertErr(err, "getting order items")
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		scanErr := rows.Scan(
			&item.ID, &item.OrderID, &item.AccountID, &item.Quantity, &item.SubPrice,
			&item.ProductName, &item.Specification, &item.Username,
		)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning order item")
		}
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting order items")
	}
	return items, nil
}

// loadItems догружает позиции и реквизиты доставки для набора заказов.
// Связанные строки выбираются явно, без каскадных джойнов заказа.
func (o *OrderRepository) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byOrderID := make(map[int64]*domain.Order, len(orders))
	orderIDs := make([]int64, 0, len(orders))
	for _, order := range orders {
		order.Items = []domain.OrderItem{}
		byOrderID[order.ID] = order
		orderIDs = append(orderIDs, order.ID)
	}

	rows, err := o.conn.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.account_id, oi.quantity, oi.sub_price,
		       p.name, a.specification
		FROM order_items oi
		JOIN accounts a ON a.id = oi.account_id
		JOIN products p ON p.id = a.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id`, orderIDs)
	if err != nil {
		return convertErr(err, "loading order items")
	}
	defer rows.Close()

	var itemIDs []int64
	for rows.Next() {
		var item domain.OrderItem
		scanErr := rows.Scan(
			&item.ID, &item.OrderID, &item.AccountID, &item.Quantity, &item.SubPrice,
			&item.ProductName, &item.Specification,
		)
		if scanErr != nil {
			return convertErr(scanErr, "scanning order item")
		}
		item.Credentials = []domain.DeliveryCredential{}
		order := byOrderID[item.OrderID]
		order.Items = append(order.Items, item)
		itemIDs = append(itemIDs, item.ID)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return convertErr(rowsErr, "loading order items")
	}
	rows.Close()

	if len(itemIDs) == 0 {
		return nil
	}

	// Индекс строим после того как все позиции разложены по заказам:
	// append выше мог переаллоцировать слайсы.
	itemIdx := make(map[int64]*domain.OrderItem, len(itemIDs))
	for _, order := range orders {
		for i := range order.Items {
			itemIdx[order.Items[i].ID] = &order.Items[i]
		}
	}

	credRows, err := o.conn.Query(ctx, `
		SELECT id, order_item_id, email, password
		FROM delivery_credentials
		WHERE order_item_id = ANY($1)
		ORDER BY id`, itemIDs)
	if err != nil {
		return convertErr(err, "loading delivery credentials")
	}
	defer credRows.Close()

	for credRows.Next() {
		var cred domain.DeliveryCredential
		if scanErr := credRows.Scan(&cred.ID, &cred.OrderItemID, &cred.Email, &cred.Password); scanErr != nil {
			return convertErr(scanErr, "scanning delivery credential")
		}
		item := itemIdx[cred.OrderItemID]
		item.Credentials = append(item.Credentials, cred)
	}
	if rowsErr := credRows.Err(); rowsErr != nil {
		return convertErr(rowsErr, "loading delivery credentials")
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.UserID,
		&order.Status, &order.TotalPrice, &order.OrderDate,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &order, nil
}
