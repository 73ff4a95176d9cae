package utils

import (
	"bytes"
	"fmt"
	"html/template"

	"gravity_back_end/internal/models"
	"gravity_back_end/internal/repository"
)

var orderConfirmationTmpl = template.Must(template.New("order-confirmation").Funcs(template.FuncMap{
	"soles": models.FormatSoles,
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Confirmación de pedido</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">¡Gracias por tu compra, {{.FirstName}}!</h2>
		<p>Tu pedido <strong>{{.TrackingCode}}</strong> fue confirmado.</p>

		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Producto</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Cantidad</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Precio</th>
					<th style="padding: 10px; text-align: left; border: 1px solid #ddd;">Total</th>
				</tr>
			</thead>
			<tbody>
			{{range .Items}}
				<tr>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.Name}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">{{.Quantity}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">{{soles .Price}}</td>
					<td style="padding: 10px; border: 1px solid #ddd;">{{soles .LineTotal}}</td>
				</tr>
			{{end}}
			</tbody>
			<tfoot>
				<tr><td colspan="3" style="padding: 6px 10px; text-align: right;">Subtotal:</td><td style="padding: 6px 10px;">{{soles .Totals.Subtotal}}</td></tr>
				{{if .Totals.Discount.IsPositive}}
				<tr><td colspan="3" style="padding: 6px 10px; text-align: right;">Descuento{{if .CouponCode}} ({{.CouponCode}}){{end}}:</td><td style="padding: 6px 10px;">-{{soles .Totals.Discount}}</td></tr>
				{{end}}
				<tr><td colspan="3" style="padding: 6px 10px; text-align: right;">Envío:</td><td style="padding: 6px 10px;">{{if .Totals.DeliveryCost.IsZero}}Gratis{{else}}{{soles .Totals.DeliveryCost}}{{end}}</td></tr>
				<tr><td colspan="3" style="padding: 10px; text-align: right; font-weight: bold;">Total:</td><td style="padding: 10px; font-weight: bold;">{{soles .Totals.Total}}</td></tr>
			</tfoot>
		</table>

		<p>{{.Delivery}}</p>
		<p>Entrega estimada: <strong>{{.DeliveryDate}}</strong></p>

		<p style="margin-top: 30px; color: #555;">
			Saludos,<br>
			<strong>El equipo Gravity</strong>
		</p>
	</div>
</body>
</html>`))

type orderConfirmationView struct {
	models.Order
	FirstName    string
	Delivery     string
	DeliveryDate string
}

// RenderOrderConfirmation produit le HTML de confirmation en español
func RenderOrderConfirmation(order models.Order) (string, error) {
	view := orderConfirmationView{
		Order:        order,
		FirstName:    order.Customer.FirstName,
		DeliveryDate: FormatLongDateES(repository.DeliveryDate(order.CreatedAt)),
	}
	if order.Customer.DeliveryMethod == models.DeliveryMethodOficina {
		view.Delivery = "Recojo en oficina."
	} else {
		view.Delivery = fmt.Sprintf("Envío a %s, %s.", order.Customer.Address, order.Customer.District)
	}

	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendu du modèle de confirmation: %w", err)
	}
	return buf.String(), nil
}
