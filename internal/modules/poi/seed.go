package poi

import "tastetrip/internal/types"

// Seed returns the demo catalog: restaurants spread along the main Spanish
// road corridors so any plausible route finds a few candidates.
func Seed() []POI {
	return []POI{
		{ID: 1, Name: "Casa Lucio", Description: "Famoso por sus huevos rotos con jamón ibérico. Cocina castellana de toda la vida.", Category: "Tradicional", Rating: 4.9, Address: "Calle Cava Baja, 35, Madrid", Hours: Hours{Open: "13:00", Close: "23:30"}, Services: []string{ServiceParking, ServiceWifi}, Coords: types.LatLng{Lat: 40.4128, Lng: -3.7090}},
		{ID: 2, Name: "Sobrino de Botín", Description: "El restaurante más antiguo del mundo según Guinness. Cochinillo y cordero asado.", Category: "Histórico", Rating: 4.7, Address: "Calle Cuchilleros, 17, Madrid", Hours: Hours{Open: "13:00", Close: "23:30"}, Services: []string{ServiceWifi}, Coords: types.LatLng{Lat: 40.4133, Lng: -3.7078}},
		{ID: 3, Name: "Mesón Cándido", Description: "Cochinillo asado segoviano de fama mundial.", Category: "Asador", Rating: 4.6, Address: "Plaza Azoguejo, 5, Segovia", Hours: Hours{Open: "12:30", Close: "23:00"}, Services: []string{ServiceEVCharger, ServiceParking}, Coords: types.LatLng{Lat: 40.9481, Lng: -4.1184}},
		{ID: 4, Name: "El Figón de Recoletos", Description: "Tapas creativas con producto de temporada en el centro de Madrid.", Category: "Tapas", Rating: 4.5, Address: "Calle Recoletos, 8, Madrid", Hours: Hours{Open: "12:00", Close: "00:00"}, Services: []string{ServiceVegan, ServiceWifi, ServiceTerraza}, Coords: types.LatLng{Lat: 40.4230, Lng: -3.6910}},
		{ID: 5, Name: "Venta del Quijote", Description: "Migas manchegas y pisto en la ruta del Quijote.", Category: "Manchego", Rating: 4.3, Address: "Puerto Lápice, Ciudad Real", Hours: Hours{Open: "09:00", Close: "22:00"}, Services: []string{ServiceEVCharger, ServiceParking}, Coords: types.LatLng{Lat: 39.4295, Lng: -3.6130}},
		{ID: 6, Name: "Casa Juanito", Description: "Morteruelo y gazpacho manchego auténtico.", Category: "Manchego", Rating: 4.5, Address: "Tarancón, Cuenca", Hours: Hours{Open: "10:00", Close: "23:00"}, Services: []string{ServiceVegan, ServiceEVCharger}, Coords: types.LatLng{Lat: 39.8500, Lng: -2.1400}},
		{ID: 7, Name: "La Barraca Valencia", Description: "Paella valenciana auténtica con leña de naranjo.", Category: "Arrocería", Rating: 4.8, Address: "Calle Reina, 29, Valencia", Hours: Hours{Open: "13:00", Close: "23:30"}, Services: []string{ServiceWifi, ServiceTerraza}, Coords: types.LatLng{Lat: 39.4730, Lng: -0.3750}},
		{ID: 8, Name: "Restaurante Goya", Description: "Ternasco de Aragón y borraja en tempura.", Category: "Aragonés", Rating: 4.5, Address: "Calatayud, Zaragoza", Hours: Hours{Open: "13:00", Close: "23:00"}, Services: []string{ServiceEVCharger}, Coords: types.LatLng{Lat: 41.2300, Lng: -1.7270}},
		{ID: 9, Name: "Los Cabezudos", Description: "Alta cocina aragonesa con producto de proximidad.", Category: "Gastro", Rating: 4.7, Address: "Calle Mayor, Zaragoza", Hours: Hours{Open: "13:00", Close: "00:00"}, Services: []string{ServiceVegan, ServiceWifi}, Coords: types.LatLng{Lat: 41.6488, Lng: -0.8891}},
		{ID: 10, Name: "Cal Pep Barcelona", Description: "Tapas de mercado y mariscos en el Born.", Category: "Tapas", Rating: 4.8, Address: "Pl. de les Olles, 8, Barcelona", Hours: Hours{Open: "13:00", Close: "23:30"}, Services: []string{ServiceWifi}, Coords: types.LatLng{Lat: 41.3840, Lng: 2.1820}},
		{ID: 11, Name: "Casa Pepe de la Judería", Description: "Salmorejo y flamenquín cordobés en la judería.", Category: "Cordobés", Rating: 4.6, Address: "Calle Romero, 1, Córdoba", Hours: Hours{Open: "12:30", Close: "23:30"}, Services: []string{ServiceWifi, ServiceTerraza}, Coords: types.LatLng{Lat: 37.8794, Lng: -4.7794}},
		{ID: 12, Name: "Taberna El Pimpi", Description: "Vinos dulces y espetos de sardinas con vistas a la Alcazaba.", Category: "Malagueño", Rating: 4.7, Address: "Calle Granada, 62, Málaga", Hours: Hours{Open: "12:00", Close: "01:00"}, Services: []string{ServiceVegan, ServiceWifi, ServicePetFriendly}, Coords: types.LatLng{Lat: 36.7213, Lng: -4.4190}},
		{ID: 13, Name: "El Faro de Cádiz", Description: "Tortillitas de camarones y pescaíto frito gaditano.", Category: "Gaditano", Rating: 4.8, Address: "Calle San Félix, 15, Cádiz", Hours: Hours{Open: "13:00", Close: "23:30"}, Services: []string{ServiceParking, ServiceWifi}, Coords: types.LatLng{Lat: 36.5297, Lng: -6.2926}},
		{ID: 14, Name: "La Tasca del Sur", Description: "Comida tradicional andaluza en un ambiente acogedor.", Category: "Tradicional", Rating: 4.5, Address: "Calle Sierpes, 10, Sevilla", Hours: Hours{Open: "12:00", Close: "00:00"}, Services: []string{ServiceVegan, ServiceTerraza}, Coords: types.LatLng{Lat: 37.3891, Lng: -5.9845}},
		{ID: 15, Name: "Bodegas Campos", Description: "Rabo de toro y vinos de Montilla-Moriles en patio andaluz.", Category: "Bodega", Rating: 4.6, Address: "Calle Lineros, 32, Córdoba", Hours: Hours{Open: "13:00", Close: "23:30"}, Services: []string{ServiceParking}, Coords: types.LatLng{Lat: 37.8840, Lng: -4.7710}},
	}
}
